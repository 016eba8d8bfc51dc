// Package status composes the plaintext report served by /api/status from
// the system collectors and the hardware cache. Every source is wrapped
// independently: a failing collector degrades its own section to an error
// line instead of aborting the whole response.
package status

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/benrowan/crusty-crawler/internal/server/hardware"
)

// SystemCollector is the report's view of the system telemetry sources.
type SystemCollector interface {
	Overview(ctx context.Context) (string, error)
	NetworkTotals(ctx context.Context) ([]string, error)
	NetworkTraffic(ctx context.Context) ([]string, error)
	Components(ctx context.Context) ([]string, error)
	Disks(ctx context.Context) ([]string, error)
}

// HardwareSource yields the cached hardware snapshot.
type HardwareSource interface {
	Snapshot(ctx context.Context, now time.Time) hardware.Snapshot
}

type Assembler struct {
	sys SystemCollector
	hw  HardwareSource

	now func() time.Time // test seam
}

func NewAssembler(sys SystemCollector, hw HardwareSource) *Assembler {
	return &Assembler{sys: sys, hw: hw, now: time.Now}
}

// Report builds the full status text.
func (a *Assembler) Report(ctx context.Context) string {
	var b strings.Builder

	overview, err := a.sys.Overview(ctx)
	if err != nil {
		fmt.Fprintf(&b, "Error getting system overview: %v\n", err)
	} else {
		b.WriteString(overview)
	}

	a.listSection(ctx, &b, "Network Statistics (Total)", "No Interfaces Found", a.sys.NetworkTotals)
	a.listSection(ctx, &b, "Current Network Traffic", "No Interfaces Found", a.sys.NetworkTraffic)

	snap := a.hw.Snapshot(ctx, a.now())
	b.WriteString("\n=== Power Information ===\n")
	if snap.PowerSummary != "" {
		b.WriteString(snap.PowerSummary)
	} else {
		b.WriteString("Power info not available\n")
	}
	b.WriteString("\n=== Thermal Information ===\n")
	if snap.ThermalSummary != "" {
		b.WriteString(snap.ThermalSummary)
	} else {
		b.WriteString("Thermal info not available\n")
	}
	if len(snap.Suggestions) > 0 {
		b.WriteString("\n=== Optimization Suggestions ===\n")
		for _, s := range snap.Suggestions {
			b.WriteString(s + "\n")
		}
	}

	a.listSection(ctx, &b, "Components", "No Components Found", a.sys.Components)
	a.listSection(ctx, &b, "Disks", "No Disks Found", a.sys.Disks)

	return b.String()
}

// listSection renders one titled list section, degrading to an error line
// when the collector fails.
func (a *Assembler) listSection(ctx context.Context, b *strings.Builder, title, empty string,
	collect func(ctx context.Context) ([]string, error)) {

	fmt.Fprintf(b, "\n%s:\n", title)

	items, err := collect(ctx)
	if err != nil {
		fmt.Fprintf(b, "Error getting %s: %v\n", strings.ToLower(title), err)
		return
	}
	if len(items) == 0 {
		b.WriteString(empty + "\n")
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "  %s\n", item)
	}
}
