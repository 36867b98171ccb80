// Copyright 2026 The Kestrel Authors
// SPDX-License-Identifier: Apache-2.0

package sysinfo

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/kestrel-gateway/kestrel/lib/config"
	"github.com/kestrel-gateway/kestrel/lib/process"
)

// DefaultCommandTimeout bounds each probe command.
const DefaultCommandTimeout = 10 * time.Second

// busyBoxPlatform is the platform property value of boards whose
// userland is BusyBox.
const busyBoxPlatform = "intel-edison"

// Configuration is the subset of *config.Resolver the provider reads.
type Configuration interface {
	GetProperty(key string) (string, bool)
	ResolveLocation(kind config.LocationKind, relative string) (string, bool, error)
}

// ProviderOptions configures a Provider. Configuration and Executor
// are required.
type ProviderOptions struct {
	Configuration Configuration
	Executor      process.Executor
	Logger        *slog.Logger

	// Host defaults to SystemHost().
	Host Host

	// GOOS replaces runtime.GOOS when deriving the OS name.
	GOOS string

	// ProcRoot replaces "/proc" when reading kernel version details.
	ProcRoot string

	// CommandTimeout bounds each probe command. Zero selects
	// DefaultCommandTimeout.
	CommandTimeout time.Duration
}

// Provider resolves platform facts. It is safe for concurrent use.
type Provider struct {
	configuration  Configuration
	executor       process.Executor
	logger         *slog.Logger
	host           Host
	goos           string
	procRoot       string
	commandTimeout time.Duration

	busyBoxOnce sync.Once
	busyBox     bool
}

// NewProvider returns a Provider.
func NewProvider(options ProviderOptions) *Provider {
	provider := &Provider{
		configuration:  options.Configuration,
		executor:       options.Executor,
		logger:         options.Logger,
		host:           options.Host,
		goos:           options.GOOS,
		procRoot:       options.ProcRoot,
		commandTimeout: options.CommandTimeout,
	}
	if provider.logger == nil {
		provider.logger = slog.Default()
	}
	if provider.host == nil {
		provider.host = SystemHost()
	}
	if provider.goos == "" {
		provider.goos = defaultGOOS()
	}
	if provider.procRoot == "" {
		provider.procRoot = "/proc"
	}
	if provider.commandTimeout <= 0 {
		provider.commandTimeout = DefaultCommandTimeout
	}
	return provider
}

// Resolve returns the value of fact and how it was obtained.
func (p *Provider) Resolve(ctx context.Context, fact Fact) PlatformFact {
	key, known := overrideKeys[fact]
	if !known {
		return PlatformFact{Fact: fact, Value: Unknown, Source: SourceDefault, Err: ErrUnknownFact}
	}
	if value, ok := p.configuration.GetProperty(key); ok {
		return PlatformFact{Fact: fact, Value: value, Source: SourceOverride}
	}

	switch fact {
	case FactOSName:
		return p.derived(fact, hostOSName(p.goos))
	case FactOSVersion:
		return p.derived(fact, p.osVersion(ctx))
	case FactOSArch:
		return p.derived(fact, p.osArch(ctx))
	case FactOSDistribution, FactOSDistributionVersion, FactPlatform:
		// Only ever provisioned, never probed.
		return p.fallback(fact, nil)
	case FactPrimaryInterface:
		return p.primaryInterface(ctx)
	case FactPrimaryMAC:
		return p.primaryMAC(ctx)
	default:
		return p.probe(ctx, fact)
	}
}

// Facts resolves every fact in AllFacts order.
func (p *Provider) Facts(ctx context.Context) []PlatformFact {
	facts := make([]PlatformFact, 0, len(AllFacts))
	for _, fact := range AllFacts {
		facts = append(facts, p.Resolve(ctx, fact))
	}
	return facts
}

func (p *Provider) value(ctx context.Context, fact Fact) string {
	resolved := p.Resolve(ctx, fact)
	if resolved.Err != nil {
		p.logger.Error("resolving platform fact", "fact", fact, "error", resolved.Err)
	}
	return resolved.Value
}

func (p *Provider) OSName(ctx context.Context) string      { return p.value(ctx, FactOSName) }
func (p *Provider) OSVersion(ctx context.Context) string   { return p.value(ctx, FactOSVersion) }
func (p *Provider) OSArch(ctx context.Context) string      { return p.value(ctx, FactOSArch) }
func (p *Provider) Platform(ctx context.Context) string    { return p.value(ctx, FactPlatform) }
func (p *Provider) BIOSVersion(ctx context.Context) string { return p.value(ctx, FactBIOSVersion) }
func (p *Provider) ModelID(ctx context.Context) string     { return p.value(ctx, FactModelID) }
func (p *Provider) ModelName(ctx context.Context) string   { return p.value(ctx, FactModelName) }
func (p *Provider) PartNumber(ctx context.Context) string  { return p.value(ctx, FactPartNumber) }
func (p *Provider) DeviceName(ctx context.Context) string  { return p.value(ctx, FactDeviceName) }

func (p *Provider) OSDistribution(ctx context.Context) string {
	return p.value(ctx, FactOSDistribution)
}

func (p *Provider) OSDistributionVersion(ctx context.Context) string {
	return p.value(ctx, FactOSDistributionVersion)
}

func (p *Provider) FirmwareVersion(ctx context.Context) string {
	return p.value(ctx, FactFirmwareVersion)
}

func (p *Provider) SerialNumber(ctx context.Context) string {
	return p.value(ctx, FactSerialNumber)
}

func (p *Provider) PrimaryNetworkInterfaceName(ctx context.Context) string {
	return p.value(ctx, FactPrimaryInterface)
}

func (p *Provider) PrimaryMACAddress(ctx context.Context) string {
	return p.value(ctx, FactPrimaryMAC)
}

// UsingBusyBox reports whether the platform property names a BusyBox
// board. It is computed on first call and cached for the provider's
// lifetime.
func (p *Provider) UsingBusyBox() bool {
	p.busyBoxOnce.Do(func() {
		platform, _ := p.configuration.GetProperty(overrideKeys[FactPlatform])
		p.busyBox = platform == busyBoxPlatform
	})
	return p.busyBox
}

// probe runs the first probe registered for the current OS whose
// version guard matches.
func (p *Provider) probe(ctx context.Context, fact Fact) PlatformFact {
	osName := p.Resolve(ctx, FactOSName).Value
	candidates := probes[probeKey{os: osName, fact: fact}]

	var osVersion string
	versionKnown := false
	for _, candidate := range candidates {
		if candidate.when != nil {
			if !versionKnown {
				osVersion = p.Resolve(ctx, FactOSVersion).Value
				versionKnown = true
			}
			if !candidate.when(osVersion) {
				continue
			}
		}

		outputs := make([]string, 0, len(candidate.commands))
		for _, argv := range candidate.commands {
			output, err := p.runSystemInfoCommand(ctx, argv)
			if err != nil {
				return p.fallback(fact, err)
			}
			outputs = append(outputs, output)
		}
		if value, ok := candidate.parse(outputs); ok {
			return p.derived(fact, value)
		}
		p.logger.Warn("unrecognized command output", "fact", fact, "os", osName, "commands", candidate.commands)
		return p.fallback(fact, nil)
	}
	return p.fallback(fact, nil)
}

// runSystemInfoCommand returns stdout with CRLF folded to LF and one
// trailing newline removed. Spawn failures and timeouts are errors; a
// nonzero exit is not.
func (p *Provider) runSystemInfoCommand(ctx context.Context, argv []string) (string, error) {
	result, err := p.executor.Run(ctx, argv, process.Options{Wait: true, Timeout: p.commandTimeout})
	if err != nil {
		return "", err
	}
	output := strings.ReplaceAll(string(result.Stdout), "\r\n", "\n")
	return strings.TrimSuffix(output, "\n"), nil
}

func (p *Provider) derived(fact Fact, value string) PlatformFact {
	if value == "" {
		return p.fallback(fact, nil)
	}
	return PlatformFact{Fact: fact, Value: value, Source: SourceCommand}
}

func (p *Provider) fallback(fact Fact, err error) PlatformFact {
	return PlatformFact{Fact: fact, Value: sentinel(fact), Source: SourceDefault, Err: err}
}

// osVersion is the kernel release followed, on Linux, by each line of
// /proc/sys/kernel/version preceded by a space.
func (p *Provider) osVersion(ctx context.Context) string {
	release, err := p.host.KernelRelease(ctx)
	if err != nil {
		p.logger.Warn("reading kernel release", "error", err)
	}
	var builder strings.Builder
	builder.WriteString(strings.TrimSpace(release))

	if p.Resolve(ctx, FactOSName).Value == OSLinux {
		data, err := os.ReadFile(filepath.Join(p.procRoot, "sys", "kernel", "version"))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			p.logger.Warn("reading kernel version", "error", err)
		}
		for line := range strings.Lines(string(data)) {
			builder.WriteByte(' ')
			builder.WriteString(strings.TrimRight(line, "\r\n"))
		}
	}
	return strings.TrimSpace(builder.String())
}

func (p *Provider) osArch(ctx context.Context) string {
	arch, err := p.host.KernelArch(ctx)
	if err != nil || strings.TrimSpace(arch) == "" {
		return runtime.GOARCH
	}
	return strings.TrimSpace(arch)
}
