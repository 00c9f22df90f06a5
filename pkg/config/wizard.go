package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// WizardAnswers holds the raw form values of the setup wizard.
type WizardAnswers struct {
	Duration string
	FPS      int
	Theme    string
	Mouse    bool
	Watch    bool
	Sources  string // comma separated
	Table    string
}

func answersFrom(cfg Config) WizardAnswers {
	return WizardAnswers{
		Duration: strconv.Itoa(cfg.Animation.DurationMS),
		FPS:      cfg.Animation.FPS,
		Theme:    cfg.UI.Theme,
		Mouse:    cfg.List.Mouse,
		Watch:    cfg.Source.Watch,
		Sources:  strings.Join(cfg.Source.Paths, ", "),
		Table:    cfg.Source.Table,
	}
}

// Apply folds the answers into cfg and validates the result.
func (a WizardAnswers) Apply(cfg Config) (Config, error) {
	ms, err := strconv.Atoi(strings.TrimSpace(a.Duration))
	if err != nil {
		return cfg, fmt.Errorf("duration: %w", err)
	}
	cfg.Animation.DurationMS = ms
	cfg.Animation.FPS = a.FPS
	cfg.UI.Theme = a.Theme
	cfg.List.Mouse = a.Mouse
	cfg.Source.Watch = a.Watch
	cfg.Source.Table = strings.TrimSpace(a.Table)
	cfg.Source.Paths = nil
	for _, p := range strings.Split(a.Sources, ",") {
		if p = strings.TrimSpace(p); p != "" {
			cfg.Source.Paths = append(cfg.Source.Paths, expandHome(p))
		}
	}
	return cfg, cfg.Validate()
}

// isTerminal checks if stdin is connected to a terminal
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm creates a form with appropriate settings based on TTY detection
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeCharm())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

func validateDuration(s string) error {
	ms, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("enter a whole number of milliseconds")
	}
	if ms < 0 || ms > MaxDurationMS {
		return fmt.Errorf("must be between 0 and %d", MaxDurationMS)
	}
	return nil
}

// RunWizard asks for the main settings, starting from cfg, and returns the
// updated configuration. It does not save.
func RunWizard(cfg Config) (Config, error) {
	a := answersFrom(cfg)

	themes := make([]huh.Option[string], 0, len(Themes))
	for _, t := range Themes {
		themes = append(themes, huh.NewOption(t, t))
	}

	form := newForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Animation duration (ms)").
				Description("0 expands and collapses rows instantly").
				Value(&a.Duration).
				Validate(validateDuration),
			huh.NewSelect[int]().
				Title("Frames per second").
				Options(
					huh.NewOption("20", 20),
					huh.NewOption("30", 30),
					huh.NewOption("60", 60),
				).
				Value(&a.FPS),
			huh.NewSelect[string]().
				Title("Theme").
				Options(themes...).
				Value(&a.Theme),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Enable mouse?").
				Description("Click a row's toggle to expand it").
				Value(&a.Mouse),
			huh.NewInput().
				Title("Default sources").
				Description("Comma separated .jsonl, .yaml or .db files").
				Value(&a.Sources),
			huh.NewInput().
				Title("SQLite table").
				Placeholder("rows").
				Value(&a.Table),
			huh.NewConfirm().
				Title("Reload when sources change?").
				Value(&a.Watch),
		),
	)
	if err := form.Run(); err != nil {
		return cfg, err
	}
	return a.Apply(cfg)
}
