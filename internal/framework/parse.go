package framework

import "strings"

// stripPrefix removes the matching command prefix or bot mention from content.
// Prefixes are tried in configured order; the mention forms <@id> and <@!id>
// are accepted when on-mention is enabled and the identity is known. Leading
// whitespace after the prefix is tolerated.
func (d *Dispatcher) stripPrefix(content string) (string, bool) {
	for _, p := range d.prefixes {
		if p != "" && strings.HasPrefix(content, p) {
			return strings.TrimLeft(content[len(p):], " \t"), true
		}
	}
	if d.onMention {
		if id := d.identity(); id != "" {
			for _, m := range []string{"<@" + id + ">", "<@!" + id + ">"} {
				if strings.HasPrefix(content, m) {
					return strings.TrimLeft(content[len(m):], " \t"), true
				}
			}
		}
	}
	return "", false
}

// splitCommand separates the command name from the argument string. The name
// ends at the earliest whitespace or configured delimiter; delimiters are
// matched in priority order, so an earlier-configured delimiter wins ties.
// The argument string is rest-trimmed.
func splitCommand(s string, delimiters []string) (name, args string) {
	cut, cutLen := len(s), 0
	if i := strings.IndexAny(s, " \t\n"); i >= 0 {
		cut, cutLen = i, 1
	}
	for _, del := range delimiters {
		if del == "" {
			continue
		}
		if i := strings.Index(s, del); i >= 0 && i < cut {
			cut, cutLen = i, len(del)
		}
	}
	name = s[:cut]
	if cut+cutLen <= len(s) {
		args = strings.TrimSpace(s[cut+cutLen:])
	}
	return name, args
}
