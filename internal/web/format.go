package web

import (
	"fmt"
	"html/template"
	"strconv"
	"time"
)

var funcMap = template.FuncMap{
	"date":  FormatDate,
	"count": FormatCount,
	"size":  FormatSize,
}

// FormatDate renders t as "Jan 2, 2006". Zero times read "Recently".
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "Recently"
	}
	return t.UTC().Format("Jan 2, 2006")
}

// FormatCount abbreviates counters: 999, 1.2k, 3.4M
func FormatCount(n int) string {
	switch {
	case n < 1000:
		return strconv.Itoa(n)
	case n < 1_000_000:
		return trimZero(float64(n)/1000) + "k"
	default:
		return trimZero(float64(n)/1_000_000) + "M"
	}
}

// FormatSize renders a repository size given in kilobytes
func FormatSize(kb int) string {
	switch {
	case kb < 1024:
		return fmt.Sprintf("%d KB", kb)
	case kb < 1024*1024:
		return trimZero(float64(kb)/1024) + " MB"
	default:
		return trimZero(float64(kb)/(1024*1024)) + " GB"
	}
}

// trimZero formats with one decimal, dropping a trailing ".0"
func trimZero(f float64) string {
	s := strconv.FormatFloat(f, 'f', 1, 64)
	if len(s) > 2 && s[len(s)-2:] == ".0" {
		return s[:len(s)-2]
	}
	return s
}
