// Copyright © 2026 Aron Vendel <aron@avendel.dev>

package decoder

import (
	"strings"

	"github.com/avendel/fireguard/data"
)

type matcher struct {
	name  string
	match func(line string) bool
	apply func(p *partialReading, line string)
}

// matchers is evaluated in order and the first match wins. The order is a
// contract: longer keywords come before shorter ones they contain as a
// substring ("Avg HR" before "HR (BPM)", "Smoke Detected" before
// "Flame Detected"), so it must not be rearranged.
var matchers = []matcher{
	{
		name: "temperature",
		match: func(line string) bool {
			return strings.Contains(line, "Temperature") && strings.Contains(line, ":")
		},
		apply: func(p *partialReading, line string) {
			value, _ := extractNumber(line)
			p.temperature = &value
		},
	},
	{
		name: "gas level",
		match: func(line string) bool {
			return strings.Contains(line, "MQ2 Value")
		},
		apply: func(p *partialReading, line string) {
			value, _ := extractNumber(line)
			gas := int(value)
			p.gasLevel = &gas
		},
	},
	{
		name: "smoke",
		match: func(line string) bool {
			return strings.Contains(line, "Smoke Detected")
		},
		apply: func(p *partialReading, line string) {
			// The smoke line restates the flame state for this cycle;
			// a later flame line may set it again.
			flame := false
			p.flame = &flame
			if affirmative(line) {
				p.alert = data.AlertSmoke
			}
		},
	},
	{
		name: "flame",
		match: func(line string) bool {
			if strings.Contains(line, "Flame Detected?") {
				return true
			}
			return strings.Contains(line, "Flame Detected") && !strings.Contains(line, "Flame Raw")
		},
		apply: func(p *partialReading, line string) {
			flame := affirmative(line)
			p.flame = &flame
		},
	},
	{
		name: "average heart rate",
		match: func(line string) bool {
			return strings.Contains(line, "Avg HR")
		},
		apply: func(p *partialReading, line string) {
			p.heartRateAvg = optionalNumber(line)
		},
	},
	{
		name: "heart rate",
		match: func(line string) bool {
			return strings.Contains(line, "HR (BPM)") || strings.Contains(line, "Heart Rate")
		},
		apply: func(p *partialReading, line string) {
			p.heartRate = optionalNumber(line)
		},
	},
	{
		name: "blood oxygen",
		match: func(line string) bool {
			// The bare acronym also shows up in lines like "HR/SpO2 Alert",
			// so the percent qualifier is required.
			return strings.Contains(line, "SpO2 (%)")
		},
		apply: func(p *partialReading, line string) {
			value, _ := extractNumber(line)
			p.bloodOxygen = &value
		},
	},
}

const triggerKeyword = "ALERT STATUS"

func isTrigger(line string) bool {
	return strings.Contains(line, triggerKeyword)
}

// triggerStatus reads the alert state off the trigger line. Only the text
// after the keyword (or the first colon) counts, so the keyword itself
// never reads as an alert.
func triggerStatus(line string) data.AlertStatus {
	rest := line
	if _, after, found := strings.Cut(line, ":"); found {
		rest = after
	} else if i := strings.Index(line, triggerKeyword); i >= 0 {
		rest = line[i+len(triggerKeyword):]
	}
	if strings.Contains(rest, "ALERT") || strings.Contains(rest, "🚨") {
		return data.AlertActive
	}
	return data.AlertNormal
}
