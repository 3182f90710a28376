package command

import (
	"github.com/urfave/cli/v3"

	"github.com/lmercat/scango/internal/config"
)

// Merge applies the values parsed for the given flag specs into the
// namespace. Only flags the user actually supplied are merged, so declared
// defaults and file-persisted values survive untouched; an explicitly
// supplied flag always wins because the merge runs strictly after defaults
// and file load and overwrites in place.
//
// After merging, the namespace is the single configuration object the rest
// of the program consumes; nothing downstream re-reads parsed arguments.
func Merge(cfg *config.Namespace, cmd *cli.Command, specs []FlagSpec) {
	for _, s := range specs {
		if !cmd.IsSet(s.FlagName) {
			continue
		}
		v := cmd.Value(s.FlagName)
		if s.Negated {
			// A "no-" flag stores the inverse of its parsed value, so
			// --no-x lands as x=false under the destination key.
			if b, ok := v.(bool); ok {
				cfg.Set(s.DestKey, !b)
				continue
			}
		}
		cfg.Set(s.DestKey, v)
	}
}
