package main

import (
	"regexp"
	"strings"
	"unicode"
)

const unknownLabel = "Unknown"

type labelExtractor[T any] func(T) string

// employeeLabelChain is tried in order; the first non-empty result wins.
var employeeLabelChain = []labelExtractor[employeeRecord]{
	func(e employeeRecord) string { return strings.TrimSpace(e.Nickname) },
	func(e employeeRecord) string { return strings.TrimSpace(e.Name) },
	func(e employeeRecord) string { return strings.TrimSpace(e.DisplayName) },
	func(e employeeRecord) string { return strings.TrimSpace(e.FullName) },
	func(e employeeRecord) string { return labelFromEmail(e.Email) },
	func(e employeeRecord) string { return strings.TrimSpace(e.Email) },
}

var scorecardLabelChain = []labelExtractor[scorecardEntry]{
	func(u scorecardEntry) string { return strings.TrimSpace(u.Nickname) },
	func(u scorecardEntry) string { return strings.TrimSpace(u.Label) },
	func(u scorecardEntry) string { return u.Email },
}

func firstLabel[T any](v T, chain []labelExtractor[T]) string {
	for _, extract := range chain {
		if label := extract(v); label != "" {
			return label
		}
	}
	return unknownLabel
}

var (
	localPartSeparators = regexp.MustCompile(`[._]+`)
	whitespaceRun       = regexp.MustCompile(`\s+`)
)

// labelFromEmail derives "Eman Nasr" from "eman.nasr@example.com".
func labelFromEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	if at < 0 {
		return ""
	}
	local := localPartSeparators.ReplaceAllString(email[:at], " ")
	local = whitespaceRun.ReplaceAllString(local, " ")
	local = strings.ToLower(strings.TrimSpace(local))
	return titleWords(local)
}

// titleWords upper-cases every word character that follows a non-word one.
func titleWords(s string) string {
	out := []rune(s)
	prevWord := false
	for i, r := range out {
		word := r == '_' || r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))
		if word && !prevWord {
			out[i] = unicode.ToUpper(r)
		}
		prevWord = word
	}
	return string(out)
}
