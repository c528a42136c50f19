package cronparser

import (
	"fmt"
	"strings"
	"sync"
	"time"

	cron "github.com/netresearch/go-cron"
)

// Five-field expressions plus descriptors such as @hourly.
var _parser = cron.MustNewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Parser computes next cron occurrences using go-cron. Parsed schedules are
// cached by their timezone-qualified spec.
type Parser struct {
	mu    sync.RWMutex
	cache map[string]cron.Schedule
}

func New() *Parser {
	return &Parser{
		cache: make(map[string]cron.Schedule),
	}
}

// NextAfter returns the next occurrence of spec strictly after `after`.
// tz applies unless spec carries its own CRON_TZ=/TZ= prefix; empty tz means UTC.
func (p *Parser) NextAfter(
	spec,
	tz string,
	after time.Time,
) (time.Time, error) {
	schedule, err := p.schedule(spec, tz)
	if err != nil {
		return time.Time{}, err
	}

	next := schedule.Next(after)
	if next.IsZero() {
		return time.Time{}, fmt.Errorf("cron spec %q has no occurrence after %s", spec, after.Format(time.RFC3339))
	}

	return next, nil
}

func (p *Parser) schedule(spec, tz string) (cron.Schedule, error) {
	fullSpec, err := buildSpec(strings.TrimSpace(spec), tz)
	if err != nil {
		return nil, err
	}

	p.mu.RLock()
	schedule, ok := p.cache[fullSpec]
	p.mu.RUnlock()

	if ok {
		return schedule, nil
	}

	schedule, err = _parser.Parse(fullSpec)
	if err != nil {
		return nil, fmt.Errorf("parse cron spec %q: %w", spec, err)
	}

	p.mu.Lock()
	p.cache[fullSpec] = schedule
	p.mu.Unlock()

	return schedule, nil
}

func buildSpec(spec, tz string) (string, error) {
	if spec == "" {
		return "", fmt.Errorf("cron spec is empty")
	}

	if strings.HasPrefix(spec, "CRON_TZ=") || strings.HasPrefix(spec, "TZ=") {
		return spec, nil
	}

	if tz == "" {
		tz = "UTC"
	}

	if _, err := time.LoadLocation(tz); err != nil {
		return "", fmt.Errorf("load timezone %q: %w", tz, err)
	}

	return "CRON_TZ=" + tz + " " + spec, nil
}
