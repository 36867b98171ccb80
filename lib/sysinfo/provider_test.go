// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

package sysinfo_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/kestrel-gateway/kestrel/lib/config"
	"github.com/kestrel-gateway/kestrel/lib/process"
	"github.com/kestrel-gateway/kestrel/lib/sysinfo"
	"github.com/kestrel-gateway/kestrel/lib/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// properties is a Configuration backed by a map. Locations resolve to
// <key value>/<relative> with no side effects.
type properties map[string]string

func (p properties) GetProperty(key string) (string, bool) {
	value, ok := p[key]
	return value, ok
}

func (p properties) ResolveLocation(kind config.LocationKind, relative string) (string, bool, error) {
	base, ok := p["kestrel."+string(kind)]
	if !ok {
		return "", false, nil
	}
	return filepath.Join(base, relative), true, nil
}

type countingProperties struct {
	properties
	mu    sync.Mutex
	reads map[string]int
}

func (c *countingProperties) GetProperty(key string) (string, bool) {
	c.mu.Lock()
	c.reads[key]++
	c.mu.Unlock()
	return c.properties.GetProperty(key)
}

// scriptedExecutor answers commands by their space-joined argv.
// Unscripted commands fail to spawn.
type scriptedExecutor struct {
	mu      sync.Mutex
	outputs map[string]string
	calls   []string
}

func (s *scriptedExecutor) Run(_ context.Context, argv []string, options process.Options) (process.Result, error) {
	command := strings.Join(argv, " ")
	s.mu.Lock()
	s.calls = append(s.calls, command)
	s.mu.Unlock()
	if !options.Wait {
		return process.Result{}, errors.New("probe commands must wait")
	}
	output, ok := s.outputs[command]
	if !ok {
		return process.Result{}, &process.SpawnError{Argv: argv, Err: os.ErrNotExist}
	}
	return process.Result{Stdout: []byte(output)}, nil
}

func (s *scriptedExecutor) ran(command string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, call := range s.calls {
		if call == command {
			return true
		}
	}
	return false
}

type fakeHost struct {
	release    string
	arch       string
	interfaces []sysinfo.Interface
}

func (h fakeHost) KernelRelease(context.Context) (string, error) { return h.release, nil }
func (h fakeHost) KernelArch(context.Context) (string, error)    { return h.arch, nil }
func (h fakeHost) Interfaces(context.Context) ([]sysinfo.Interface, error) {
	return h.interfaces, nil
}

type fixture struct {
	properties properties
	executor   *scriptedExecutor
	host       fakeHost
	goos       string
	procRoot   string
}

func newFixture(t *testing.T, goos string) *fixture {
	t.Helper()
	return &fixture{
		properties: properties{},
		executor:   &scriptedExecutor{outputs: map[string]string{}},
		host:       fakeHost{release: "5.10.0-kestrel", arch: "armv7l"},
		goos:       goos,
		procRoot:   t.TempDir(),
	}
}

func (f *fixture) provider() *sysinfo.Provider {
	return sysinfo.NewProvider(sysinfo.ProviderOptions{
		Configuration: f.properties,
		Executor:      f.executor,
		Logger:        discardLogger(),
		Host:          f.host,
		GOOS:          f.goos,
		ProcRoot:      f.procRoot,
	})
}

const ifconfigOutput = `eth0: flags=4163<UP,BROADCAST,RUNNING,MULTICAST>  mtu 1500
        inet 192.168.1.20  netmask 255.255.255.0  broadcast 192.168.1.255
        ether 00:11:22:33:44:55  txqueuelen 1000  (Ethernet)
`

func TestOverridesReturnedVerbatim(t *testing.T) {
	fixture := newFixture(t, "linux")
	for _, fact := range sysinfo.AllFacts {
		fixture.properties[sysinfo.OverrideKey(fact)] = " provisioned " + string(fact)
	}
	provider := fixture.provider()

	for _, fact := range sysinfo.AllFacts {
		got := provider.Resolve(context.Background(), fact)
		if got.Value != " provisioned "+string(fact) || got.Source != sysinfo.SourceOverride {
			t.Errorf("Resolve(%s) = (%q, %s), want the override", fact, got.Value, got.Source)
		}
	}
	if len(fixture.executor.calls) != 0 {
		t.Errorf("overridden facts ran commands: %v", fixture.executor.calls)
	}
}

func TestBIOSVersionPermissionDenied(t *testing.T) {
	fixture := newFixture(t, "linux")
	fixture.executor.outputs["dmidecode -s bios-version"] = "/dev/mem: Permission denied\n"

	got := fixture.provider().Resolve(context.Background(), sysinfo.FactBIOSVersion)
	if got.Value != sysinfo.Unsupported {
		t.Errorf("BIOS version = %q, want %q", got.Value, sysinfo.Unsupported)
	}
	if got.Source != sysinfo.SourceDefault {
		t.Errorf("source = %s, want %s", got.Source, sysinfo.SourceDefault)
	}
}

func TestBIOSVersionFromDMI(t *testing.T) {
	fixture := newFixture(t, "linux")
	fixture.executor.outputs["dmidecode -s bios-version"] = "1.14.0\n"

	if got := fixture.provider().BIOSVersion(context.Background()); got != "1.14.0" {
		t.Errorf("BIOSVersion = %q, want %q", got, "1.14.0")
	}
	if fixture.executor.ran("eth_vers_bios") {
		t.Error("vendor BIOS tool ran on a non-legacy kernel")
	}
}

func TestPrimaryMACFromIfconfig(t *testing.T) {
	fixture := newFixture(t, "linux")
	fixture.executor.outputs["ifconfig"] = ifconfigOutput

	got := fixture.provider().Resolve(context.Background(), sysinfo.FactPrimaryMAC)
	if got.Value != "00:11:22:33:44:55" {
		t.Errorf("primary MAC = %q, want %q", got.Value, "00:11:22:33:44:55")
	}
	if got.Source != sysinfo.SourceCommand {
		t.Errorf("source = %s, want %s", got.Source, sysinfo.SourceCommand)
	}
}

func TestPrimaryMACFromInterfaceTable(t *testing.T) {
	fixture := newFixture(t, "linux")
	fixture.host.interfaces = []sysinfo.Interface{
		{Name: "lo"},
		{Name: "eth0", HardwareAddr: "de:ad:be:ef:00:01"},
	}

	provider := fixture.provider()
	if got := provider.PrimaryMACAddress(context.Background()); got != "DE:AD:BE:EF:00:01" {
		t.Errorf("PrimaryMACAddress = %q, want %q", got, "DE:AD:BE:EF:00:01")
	}
	if fixture.executor.ran("ifconfig") {
		t.Error("ifconfig ran although the interface table had the address")
	}
}

func TestPrimaryMACOverriddenInterface(t *testing.T) {
	fixture := newFixture(t, "linux")
	fixture.properties[sysinfo.OverrideKey(sysinfo.FactPrimaryInterface)] = "wlan0"
	fixture.executor.outputs["ifconfig"] = ifconfigOutput

	got := fixture.provider().Resolve(context.Background(), sysinfo.FactPrimaryMAC)
	if got.Value != sysinfo.Unknown {
		t.Errorf("primary MAC of absent interface = %q, want %q", got.Value, sysinfo.Unknown)
	}
}

func TestPrimaryInterfaceDefaults(t *testing.T) {
	tests := []struct {
		goos string
		want string
	}{
		{"linux", "eth0"},
		{"darwin", "en0"},
		{"freebsd", sysinfo.Unsupported},
	}
	for _, test := range tests {
		t.Run(test.goos, func(t *testing.T) {
			provider := newFixture(t, test.goos).provider()
			if got := provider.PrimaryNetworkInterfaceName(context.Background()); got != test.want {
				t.Errorf("PrimaryNetworkInterfaceName = %q, want %q", got, test.want)
			}
		})
	}
}

func TestLegacyKernelRouting(t *testing.T) {
	tests := []struct {
		name      string
		osVersion string
		outputs   map[string]string
		fact      sysinfo.Fact
		want      string
	}{
		{
			name:      "windriver bios",
			osVersion: "2.6.34.9-WR4.2.0.0_standard",
			outputs:   map[string]string{"eth_vers_bios": "BIOS 3.1\n"},
			fact:      sysinfo.FactBIOSVersion,
			want:      "BIOS 3.1",
		},
		{
			name:      "windriver firmware joins cpld and uctl",
			osVersion: "2.6.34.12-WR4.3.0.0_standard #1 SMP",
			outputs:   map[string]string{"eth_vers_cpld": "C12\n", "eth_vers_uctl": "U7\n"},
			fact:      sysinfo.FactFirmwareVersion,
			want:      "C12 U7",
		},
		{
			name:      "yocto firmware",
			osVersion: "3.0.35-12.09.01+yocto #4 PREEMPT",
			outputs:   map[string]string{"eth_vers_avr": "AVR 2.0\n"},
			fact:      sysinfo.FactFirmwareVersion,
			want:      "AVR 2.0",
		},
		{
			name:      "windriver part number",
			osVersion: "2.6.34.9-WR4.2.0.0_standard",
			outputs:   map[string]string{"eth_partno_bsp": "BSP-100\n", "eth_partno_epr": "EPR-200\n"},
			fact:      sysinfo.FactPartNumber,
			want:      "BSP-100 EPR-200",
		},
		{
			name:      "modern kernel has no firmware probe",
			osVersion: "6.1.0-18-arm64",
			fact:      sysinfo.FactFirmwareVersion,
			want:      sysinfo.Unsupported,
		},
		{
			name:      "modern kernel has no part number probe",
			osVersion: "6.1.0-18-arm64",
			fact:      sysinfo.FactPartNumber,
			want:      sysinfo.Unsupported,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			fixture := newFixture(t, "linux")
			fixture.properties[sysinfo.OverrideKey(sysinfo.FactOSVersion)] = test.osVersion
			for command, output := range test.outputs {
				fixture.executor.outputs[command] = output
			}
			got := fixture.provider().Resolve(context.Background(), test.fact)
			if got.Value != test.want {
				t.Errorf("Resolve(%s) = %q, want %q", test.fact, got.Value, test.want)
			}
		})
	}
}

func TestMacProfilerFacts(t *testing.T) {
	fixture := newFixture(t, "darwin")
	fixture.executor.outputs["/bin/sh -c system_profiler SPHardwareDataType | grep 'Serial Number'"] = "      Serial Number (system): C02XL0GZJG5J\n"
	fixture.executor.outputs["/bin/sh -c system_profiler SPHardwareDataType | grep 'Model Name'"] = "      Model Name: MacBook Pro\n"
	fixture.executor.outputs["sysctl -b hw.model"] = "MacBookPro15,1"
	fixture.executor.outputs["scutil --get ComputerName"] = "build-mac\n"
	provider := fixture.provider()
	ctx := context.Background()

	if got := provider.OSName(ctx); got != sysinfo.OSMacOSX {
		t.Errorf("OSName = %q, want %q", got, sysinfo.OSMacOSX)
	}
	if got := provider.SerialNumber(ctx); got != "C02XL0GZJG5J" {
		t.Errorf("SerialNumber = %q, want %q", got, "C02XL0GZJG5J")
	}
	if got := provider.ModelName(ctx); got != "MacBook Pro" {
		t.Errorf("ModelName = %q, want %q", got, "MacBook Pro")
	}
	if got := provider.ModelID(ctx); got != "MacBookPro15,1" {
		t.Errorf("ModelID = %q, want %q", got, "MacBookPro15,1")
	}
	if got := provider.DeviceName(ctx); got != "build-mac" {
		t.Errorf("DeviceName = %q, want %q", got, "build-mac")
	}
	if got := provider.BIOSVersion(ctx); got != sysinfo.Unsupported {
		t.Errorf("BIOSVersion without profiler output = %q, want %q", got, sysinfo.Unsupported)
	}
}

func TestLinuxDMIFacts(t *testing.T) {
	fixture := newFixture(t, "linux")
	fixture.executor.outputs["dmidecode -t system"] = "System Information\r\n\tManufacturer: Advantech\r\n\tProduct Name: UNO-2271G\r\n\tVersion: V2.1\r\n\tSerial Number: AKA1234567\r\n"
	provider := fixture.provider()
	ctx := context.Background()

	if got := provider.ModelName(ctx); got != "UNO-2271G" {
		t.Errorf("ModelName = %q, want %q", got, "UNO-2271G")
	}
	if got := provider.ModelID(ctx); got != "V2.1" {
		t.Errorf("ModelID = %q, want %q", got, "V2.1")
	}
	if got := provider.SerialNumber(ctx); got != "AKA1234567" {
		t.Errorf("SerialNumber = %q, want %q", got, "AKA1234567")
	}
}

func TestCloudbeesDeviceName(t *testing.T) {
	fixture := newFixture(t, "linux")
	fixture.properties[config.KeyOSName] = sysinfo.OSCloudbees
	fixture.executor.outputs["hostname"] = "cloud-gw-17\n"

	if got := fixture.provider().DeviceName(context.Background()); got != "cloud-gw-17" {
		t.Errorf("DeviceName = %q, want %q", got, "cloud-gw-17")
	}
}

func TestSpawnErrorFallsBack(t *testing.T) {
	fixture := newFixture(t, "linux")

	got := fixture.provider().Resolve(context.Background(), sysinfo.FactSerialNumber)
	if got.Value != sysinfo.Unknown {
		t.Errorf("serial number = %q, want %q", got.Value, sysinfo.Unknown)
	}
	if !process.IsSpawnError(got.Err) {
		t.Errorf("Err = %v, want a spawn error", got.Err)
	}
}

func TestOSVersionAndArch(t *testing.T) {
	fixture := newFixture(t, "linux")
	fixture.procRoot = testutil.WriteTree(t, map[string]string{
		"sys/kernel/version": "#1 SMP PREEMPT Debian 6.1.76-1\n",
	})
	provider := fixture.provider()
	ctx := context.Background()

	if got, want := provider.OSVersion(ctx), "5.10.0-kestrel #1 SMP PREEMPT Debian 6.1.76-1"; got != want {
		t.Errorf("OSVersion = %q, want %q", got, want)
	}
	if got := provider.OSArch(ctx); got != "armv7l" {
		t.Errorf("OSArch = %q, want %q", got, "armv7l")
	}
	if got := provider.OSName(ctx); got != sysinfo.OSLinux {
		t.Errorf("OSName = %q, want %q", got, sysinfo.OSLinux)
	}
}

func TestProvisionedOnlyFacts(t *testing.T) {
	provider := newFixture(t, "linux").provider()
	for _, fact := range []sysinfo.Fact{sysinfo.FactOSDistribution, sysinfo.FactOSDistributionVersion, sysinfo.FactPlatform} {
		got := provider.Resolve(context.Background(), fact)
		if got.Value != sysinfo.Unknown || got.Source != sysinfo.SourceDefault {
			t.Errorf("Resolve(%s) = (%q, %s), want (%q, default)", fact, got.Value, got.Source, sysinfo.Unknown)
		}
	}
}

func TestFactsCoversEveryFact(t *testing.T) {
	facts := newFixture(t, "linux").provider().Facts(context.Background())
	if len(facts) != len(sysinfo.AllFacts) {
		t.Fatalf("Facts returned %d entries, want %d", len(facts), len(sysinfo.AllFacts))
	}
	for index, fact := range facts {
		if fact.Fact != sysinfo.AllFacts[index] {
			t.Errorf("Facts()[%d] = %s, want %s", index, fact.Fact, sysinfo.AllFacts[index])
		}
		if fact.Value == "" {
			t.Errorf("Facts()[%d] (%s) has an empty value", index, fact.Fact)
		}
	}
}

func TestResolveUnknownFact(t *testing.T) {
	got := newFixture(t, "linux").provider().Resolve(context.Background(), sysinfo.Fact("cpu-temperature"))
	if !errors.Is(got.Err, sysinfo.ErrUnknownFact) {
		t.Errorf("Err = %v, want ErrUnknownFact", got.Err)
	}
}

func TestUsingBusyBoxMemoized(t *testing.T) {
	counting := &countingProperties{
		properties: properties{"kestrel.platform": "intel-edison"},
		reads:      map[string]int{},
	}
	provider := sysinfo.NewProvider(sysinfo.ProviderOptions{
		Configuration: counting,
		Executor:      &scriptedExecutor{},
		Logger:        discardLogger(),
		Host:          fakeHost{},
	})

	var detector process.PlatformDetector = provider
	for range 3 {
		if !detector.UsingBusyBox() {
			t.Fatal("UsingBusyBox = false for intel-edison")
		}
	}
	counting.properties["kestrel.platform"] = "reliagate"
	if !provider.UsingBusyBox() {
		t.Error("UsingBusyBox changed after the first call")
	}
	if got := counting.reads["kestrel.platform"]; got != 1 {
		t.Errorf("platform property read %d times, want 1", got)
	}
}

func TestBusyBoxDrivesListingCommand(t *testing.T) {
	fixture := newFixture(t, "linux")
	fixture.properties["kestrel.platform"] = "intel-edison"
	lookup := process.NewPidLookup(process.PidLookupOptions{
		Executor: fixture.executor,
		Platform: fixture.provider(),
		Logger:   discardLogger(),
	})
	if got := strings.Join(lookup.ListingCommand(), " "); got != "ps" {
		t.Errorf("ListingCommand = %q, want %q", got, "ps")
	}
}

func TestProbesThroughRunner(t *testing.T) {
	testutil.FakeExecutables(t, map[string]string{
		"dmidecode": `if [ "$1" = "-s" ]; then
	echo "/dev/mem: Permission denied"
	exit 1
fi
printf 'System Information\n\tProduct Name: UNO-2271G\n'`,
		"ifconfig": "cat <<'OUTPUT'\n" + ifconfigOutput + "OUTPUT",
	})

	provider := sysinfo.NewProvider(sysinfo.ProviderOptions{
		Configuration: properties{},
		Executor:      process.NewRunner(process.RunnerOptions{Logger: discardLogger()}),
		Logger:        discardLogger(),
		Host:          fakeHost{release: "6.1.0"},
		GOOS:          "linux",
		ProcRoot:      t.TempDir(),
	})
	ctx := context.Background()

	if got := provider.BIOSVersion(ctx); got != sysinfo.Unsupported {
		t.Errorf("BIOSVersion = %q, want %q", got, sysinfo.Unsupported)
	}
	if got := provider.ModelName(ctx); got != "UNO-2271G" {
		t.Errorf("ModelName = %q, want %q", got, "UNO-2271G")
	}
	if got := provider.PrimaryMACAddress(ctx); got != "00:11:22:33:44:55" {
		t.Errorf("PrimaryMACAddress = %q, want %q", got, "00:11:22:33:44:55")
	}
}
