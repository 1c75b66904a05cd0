package services

import (
	"fmt"
	"regexp"
	"strings"

	"pdfcast/config"
	"pdfcast/models"
)

var (
	stageDirectionRe = regexp.MustCompile(`\[.*?\]`)
	whitespaceRe     = regexp.MustCompile(`\s+`)
)

// ScriptParser deterministically converts raw dialogue text into ordered
// speaker segments for the two configured hosts.
type ScriptParser struct {
	hostA  config.HostConfig
	hostB  config.HostConfig
	lineRe *regexp.Regexp
}

func NewScriptParser(hostA, hostB config.HostConfig) *ScriptParser {
	pattern := fmt.Sprintf(`(?i)^(%s|%s):\s*(.+)$`,
		regexp.QuoteMeta(hostA.Name), regexp.QuoteMeta(hostB.Name))
	return &ScriptParser{
		hostA:  hostA,
		hostB:  hostB,
		lineRe: regexp.MustCompile(pattern),
	}
}

// Parse splits the script into lines and keeps those matching the strict
// "Host: utterance" format, case-insensitively. Non-matching lines are
// dropped silently: generator preambles, headers, and malformed lines must
// not fail the whole pipeline. Bracketed stage directions are stripped and
// whitespace collapsed; an utterance left empty by stripping is dropped.
// Each kept segment carries the voice id of the host that matched.
func (p *ScriptParser) Parse(script string) []models.PodcastSegment {
	var segments []models.PodcastSegment

	for _, line := range strings.Split(strings.TrimSpace(script), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		m := p.lineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		speaker := strings.ToLower(m[1])
		text := stageDirectionRe.ReplaceAllString(m[2], "")
		text = strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
		if text == "" {
			continue
		}

		voiceID := p.hostB.VoiceID
		if strings.EqualFold(speaker, p.hostA.Name) {
			voiceID = p.hostA.VoiceID
		}
		segments = append(segments, models.PodcastSegment{
			Speaker: speaker,
			Text:    text,
			VoiceID: voiceID,
		})
	}
	return segments
}
