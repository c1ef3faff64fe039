package main

import (
	"strings"
)

// therapist produces canned 1991-style replies
type therapist struct {
	name  string
	turn  int
	rules []rule
	idle  []string
}

type rule struct {
	keyword string
	reply   func(rest string) string
}

func newTherapist(name string) *therapist {
	return &therapist{
		name: name,
		rules: []rule{
			{"i feel ", func(rest string) string { return "WHY DO YOU FEEL " + rest + "?" }},
			{"i am ", func(rest string) string { return "HOW LONG HAVE YOU BEEN " + rest + "?" }},
			{"i'm ", func(rest string) string { return "DO YOU ENJOY BEING " + rest + "?" }},
			{"because", func(string) string { return "IS THAT THE REAL REASON?" }},
			{"hello", func(string) string { return "HELLO " + strings.ToUpper(name) + ". WHAT IS YOUR PROBLEM?" }},
			{"computer", func(string) string { return "DO COMPUTERS WORRY YOU?" }},
		},
		idle: []string{
			"TELL ME MORE ABOUT THAT.",
			"PLEASE GO ON.",
			"THAT IS INTERESTING. WHY?",
			"HOW DOES THAT MAKE YOU FEEL?",
		},
	}
}

// greeting is spoken after boot
func (t *therapist) greeting() string {
	return "HELLO " + strings.ToUpper(t.name) + ". MY NAME IS DOCTOR RETRO. I AM HERE TO HELP YOU."
}

// reply answers one user line
func (t *therapist) reply(input string) string {
	text := strings.ToLower(strings.TrimSpace(input))
	text = strings.TrimRight(text, ".!")
	if text == "" {
		return "SAY SOMETHING, PLEASE."
	}

	for _, r := range t.rules {
		if i := strings.Index(text, r.keyword); i >= 0 {
			rest := strings.TrimRight(strings.TrimSpace(text[i+len(r.keyword):]), "?")
			return r.reply(strings.ToUpper(reflect(rest)))
		}
	}
	if strings.HasSuffix(text, "?") {
		return "WHY DO YOU ASK?"
	}

	msg := t.idle[t.turn%len(t.idle)]
	t.turn++
	return msg
}

var reflections = map[string]string{
	"i":    "you",
	"me":   "you",
	"my":   "your",
	"am":   "are",
	"you":  "i",
	"your": "my",
}

// reflect swaps first and second person
func reflect(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if r, ok := reflections[w]; ok {
			words[i] = r
		}
	}
	return strings.Join(words, " ")
}
