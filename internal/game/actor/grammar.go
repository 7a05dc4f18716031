package actor

import "strings"

// conjugate turns a bare verb phrase into its third-person singular form by
// inflecting the first word: "miss" → "misses", "release spores at" →
// "releases spores at".
func conjugate(verb string) string {
	head, rest, _ := strings.Cut(verb, " ")
	switch head {
	case "":
		return verb
	case "are":
		head = "is"
	case "have":
		head = "has"
	case "do":
		head = "does"
	case "go":
		head = "goes"
	default:
		switch {
		case strings.HasSuffix(head, "s"), strings.HasSuffix(head, "sh"),
			strings.HasSuffix(head, "ch"), strings.HasSuffix(head, "x"),
			strings.HasSuffix(head, "z"):
			head += "es"
		case len(head) > 1 && strings.HasSuffix(head, "y") && !strings.ContainsAny(head[len(head)-2:len(head)-1], "aeiou"):
			head = head[:len(head)-1] + "ies"
		default:
			head += "s"
		}
	}
	if rest == "" {
		return head
	}
	return head + " " + rest
}

// article returns "a" or "an" for noun.
func article(noun string) string {
	if noun != "" && strings.ContainsAny(strings.ToLower(noun[:1]), "aeiou") {
		return "an"
	}
	return "a"
}
