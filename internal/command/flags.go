package command

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/lmercat/scango/internal/plugin"
)

// ErrUnsupportedOption marks an option whose declared kind the synthesizer
// cannot map to a flag. Synthesis continues with the owner's remaining
// options; every failure is reported to the caller.
var ErrUnsupportedOption = errors.New("unsupported option kind")

// FlagSpec is the command-line flag derived from a single Option.
type FlagSpec struct {
	// FlagName is the name the flag is exposed under (dashes, possibly a
	// "no-" prefix for default-true booleans).
	FlagName string
	// DestKey is the dotted configuration key the parsed value is merged
	// into. Qualifying keys with their owner keeps the parser surface
	// collision-free.
	DestKey string
	Kind    plugin.Kind
	Metavar string
	Default any
	// Negated marks a "no-" flag: supplying it stores the inverse of the
	// flag's parsed value under DestKey.
	Negated bool
	Choices []string
	Flag    cli.Flag
}

// SynthesizeFlags turns an owner's option template into flag specs. The
// returned errors carry one entry per option that could not be mapped;
// those options are skipped and the rest of the template is still
// synthesized.
func SynthesizeFlags(owner string, tmpl plugin.Template) ([]FlagSpec, []error) {
	var specs []FlagSpec
	var errs []error
	for _, opt := range tmpl {
		spec, err := synthesizeFlag(owner, opt)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		specs = append(specs, spec)
	}
	return specs, errs
}

func synthesizeFlag(owner string, opt plugin.Option) (FlagSpec, error) {
	flagName := strings.ReplaceAll(opt.Key, "_", "-")
	spec := FlagSpec{
		FlagName: flagName,
		DestKey:  owner + "." + opt.Key,
		Kind:     opt.Kind,
		Default:  opt.Default(),
	}

	switch opt.Kind {
	case plugin.KindText:
		spec.Metavar = "<str>"
		spec.Flag = &cli.StringFlag{Name: flagName, Usage: opt.Doc, Value: opt.Text}

	case plugin.KindBool:
		if opt.Bool {
			// A default-true boolean gets exactly one flag: the
			// disabling "no-" variant.
			spec.FlagName = "no-" + flagName
			spec.Negated = true
			spec.Flag = &cli.BoolFlag{
				Name:  spec.FlagName,
				Usage: "Disable " + lowerFirst(opt.Doc),
			}
		} else {
			spec.Flag = &cli.BoolFlag{Name: flagName, Usage: opt.Doc}
		}

	case plugin.KindFloat:
		spec.Metavar = "<float>"
		spec.Flag = &cli.FloatFlag{Name: flagName, Usage: opt.Doc, Value: opt.Float}

	case plugin.KindInt:
		spec.Metavar = "<int>"
		spec.Flag = &cli.IntFlag{Name: flagName, Usage: opt.Doc, Value: int64(opt.Int)}

	case plugin.KindEnum:
		if len(opt.Choices) == 0 {
			return FlagSpec{}, fmt.Errorf("%w: option %s has no choices", ErrUnsupportedOption, spec.DestKey)
		}
		choices := slices.Clone(opt.Choices)
		spec.Metavar = "<" + strings.Join(choices, "/") + ">"
		spec.Choices = choices
		spec.Flag = &cli.StringFlag{
			Name:  flagName,
			Usage: fmt.Sprintf("%s (one of %s)", opt.Doc, strings.Join(choices, ", ")),
			Value: choices[0],
			Action: func(_ context.Context, _ *cli.Command, v string) error {
				if !slices.Contains(choices, v) {
					return fmt.Errorf("invalid value %q for --%s (choose from %s)",
						v, flagName, strings.Join(choices, ", "))
				}
				return nil
			},
		}

	default:
		return FlagSpec{}, fmt.Errorf("%w: option %s declares kind %s", ErrUnsupportedOption, spec.DestKey, opt.Kind)
	}

	return spec, nil
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
