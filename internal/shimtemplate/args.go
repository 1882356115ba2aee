package shimtemplate

import (
	"strings"

	"github.com/shimexe/shimexe/internal/shimconfig"
)

// ProcessArgs composes the final argument vector passed to the target
// executable, branching on the shim's configured ArgsMode.
func (e *Engine) ProcessArgs(cfg shimconfig.ArgsConfig) ([]string, error) {
	switch cfg.EffectiveMode() {
	case shimconfig.ArgsModeTemplate:
		return e.processTemplateMode(cfg)
	case shimconfig.ArgsModeMerge:
		return concat(cfg.Prefix, cfg.Default, e.userArgs, cfg.Suffix), nil
	case shimconfig.ArgsModeReplace:
		middle := cfg.Default
		if len(e.userArgs) > 0 {
			middle = e.userArgs
		}
		return concat(cfg.Prefix, middle, cfg.Suffix), nil
	case shimconfig.ArgsModePrepend:
		return concat(cfg.Prefix, e.userArgs, cfg.Default, cfg.Suffix), nil
	default:
		return append([]string(nil), e.userArgs...), nil
	}
}

func (e *Engine) processTemplateMode(cfg shimconfig.ArgsConfig) ([]string, error) {
	if len(cfg.Template) > 0 {
		return e.renderTemplateArgs(cfg.Template)
	}
	if cfg.Inline != "" {
		return e.RenderInline(cfg.Inline)
	}
	return append([]string(nil), e.userArgs...), nil
}

// renderTemplateArgs renders each template entry independently; an entry
// whose rendered value contains whitespace is split into multiple
// resulting tokens, mirroring how a single `{{args}}` expansion can stand
// in for an entire argument list.
func (e *Engine) renderTemplateArgs(template []string) ([]string, error) {
	var result []string

	for _, entry := range template {
		rendered, err := e.Render(entry)
		if err != nil {
			return nil, err
		}
		if rendered == "" {
			continue
		}
		if strings.Contains(rendered, " ") {
			result = append(result, strings.Fields(rendered)...)
		} else {
			result = append(result, rendered)
		}
	}

	return result, nil
}

func concat(parts ...[]string) []string {
	var total int
	for _, p := range parts {
		total += len(p)
	}
	result := make([]string, 0, total)
	for _, p := range parts {
		result = append(result, p...)
	}
	return result
}
