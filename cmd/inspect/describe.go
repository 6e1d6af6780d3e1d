package main

import (
	"fmt"
	"strings"

	"github.com/wippyai/assetpack/container"
)

const maxDetailLines = 64

// summary is the one-line description of a section.
func summary(res container.Resource) string {
	switch t := res.(type) {
	case *container.NumericTable:
		return fmt.Sprintf("%d %s values", len(t.Values), t.Elem)
	case *container.PointList:
		shape := "open"
		if t.Closed {
			shape = "closed"
		}
		return fmt.Sprintf("%d points, %s", len(t.Points), shape)
	case *container.SoundTable:
		return fmt.Sprintf("%d sounds", len(t.Sounds))
	case *container.BlurParams:
		return fmt.Sprintf("radius %.2f, intensity %.2f, %d passes", t.Radius, t.Intensity, t.Passes)
	case *container.StringTable:
		return fmt.Sprintf("%d strings", len(t.Entries))
	case *container.EmitterTable:
		return fmt.Sprintf("%d emitters", len(t.Emitters))
	case *container.RecordTable:
		return fmt.Sprintf("%d records of %d bytes", len(t.Blocks), t.BlockSize)
	case *container.Unknown:
		return fmt.Sprintf("%d raw bytes", len(t.Data))
	default:
		return ""
	}
}

// details lists section contents, one entry per line.
func details(res container.Resource) []string {
	var lines []string
	switch t := res.(type) {
	case *container.NumericTable:
		for i, v := range t.Values {
			lines = append(lines, fmt.Sprintf("[%d] %d", i, v))
		}
	case *container.PointList:
		for i, p := range t.Points {
			lines = append(lines, fmt.Sprintf("[%d] (%g, %g, %g)", i, p.X, p.Y, p.Z))
		}
	case *container.SoundTable:
		for _, s := range t.Sounds {
			lines = append(lines, fmt.Sprintf("sound %d bank %d flags %#04x", s.ID, s.Bank, s.Flags))
		}
	case *container.BlurParams:
		lines = append(lines, "color "+colorString(t.Color))
	case *container.StringTable:
		for i, s := range t.Entries {
			lines = append(lines, fmt.Sprintf("[%d] %q", i, s))
		}
	case *container.EmitterTable:
		for _, e := range t.Emitters {
			lines = append(lines, emitterLine(e))
		}
	case *container.RecordTable:
		table := t.Table()
		for _, id := range table.IDs() {
			lines = append(lines, fmt.Sprintf("%d: %s", id, strings.Join(table.Fields(id), " | ")))
		}
	case *container.Unknown:
		lines = append(lines, fmt.Sprintf("% x", t.Data[:min(len(t.Data), 32)]))
	}

	if len(lines) > maxDetailLines {
		more := len(lines) - maxDetailLines
		lines = append(lines[:maxDetailLines], fmt.Sprintf("... %d more", more))
	}
	return lines
}

func emitterLine(e *container.Emitter) string {
	line := fmt.Sprintf("emitter %d %q lifetime %gs color %s", e.ID, e.Name, e.Lifetime, colorString(e.Color))
	if e.OnExpire != nil {
		line += " " + e.OnExpire.String()
	}
	if e.Sound != nil {
		line += " sound " + e.Sound.String()
	}
	return line
}

// describe renders a namespace entry, resolving emitter links through r.
func describe(obj container.Object, r *container.Resolver) string {
	switch v := obj.(type) {
	case container.Resource:
		return fmt.Sprintf("section %d %s: %s", v.SectionID(), v.Type(), summary(v))
	case *container.Emitter:
		s := emitterLine(v)
		if target, ok := v.ExpireTarget(r); ok {
			s += fmt.Sprintf(" -> expires into %q", target.Name)
		}
		if snd, ok := v.SoundTarget(r); ok {
			s += fmt.Sprintf(" -> plays sound %d (bank %d)", snd.ID, snd.Bank)
		}
		return s
	case *container.Sound:
		return fmt.Sprintf("sound %d bank %d flags %#04x", v.ID, v.Bank, v.Flags)
	default:
		return obj.ObjectKey()
	}
}

func colorString(c container.Color) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
