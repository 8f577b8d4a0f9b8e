package scan

import (
	"errors"

	"github.com/rs/zerolog"

	"docscribe/internal/ignore"
	"docscribe/internal/safeio"
)

// Worklist loads the root's ignore rules and enumerates candidates. A missing
// or unreadable ignore file is logged as a warning and the scan proceeds
// with no exclusions. Subdirectories that cannot be listed are logged as
// warnings and skipped.
func Worklist(fsys *safeio.SafeFS, exts []string, log zerolog.Logger) ([]Candidate, ignore.RuleSet, error) {
	rules, err := ignore.Load(fsys)
	switch {
	case errors.Is(err, ignore.ErrNoIgnoreFile):
		log.Warn().Str("root", fsys.Root()).Msg("no ignore file; continuing without exclusions")
	case err != nil:
		log.Warn().Err(err).Str("root", fsys.Root()).Msg("ignore file unreadable; continuing without exclusions")
	default:
		log.Debug().Int("rules", rules.Len()).Msg("ignore rules loaded")
	}

	cands, failed, err := Enumerate(fsys, exts, rules)
	if err != nil {
		return nil, rules, err
	}
	for _, f := range failed {
		log.Warn().Err(f.Err).Str("dir", f.Dir).Msg("skipping unreadable directory")
	}
	log.Debug().Int("candidates", len(cands)).Msg("scan complete")
	return cands, rules, nil
}
