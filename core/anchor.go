package core

import (
	"regexp"
	"strings"
	"time"

	"github.com/huangsam/seisread/schema"
)

// anchorLayout is the only accepted shape of a log file's base name.
const anchorLayout = "2006-01-02"

var anchorPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ResolveAnchor derives the anchor date of a log from its path.
//
// The leaf name is everything after the last path separator, cut at its
// first '.'. What remains must be a valid YYYY-MM-DD date, which is read as
// midnight in loc (time.Local when loc is nil). No file access happens here.
func ResolveAnchor(path string, loc *time.Location) (schema.FileAnchor, error) {
	if loc == nil {
		loc = time.Local
	}

	name := leafName(path)
	name, _, _ = strings.Cut(name, ".")

	if !anchorPattern.MatchString(name) {
		return schema.FileAnchor{}, &MalformedFileNameError{Path: path, Name: name}
	}
	midnight, err := time.ParseInLocation(anchorLayout, name, loc)
	if err != nil {
		return schema.FileAnchor{}, &MalformedFileNameError{Path: path, Name: name, Err: err}
	}

	return schema.FileAnchor{Name: name, Midnight: midnight}, nil
}

// leafName returns the text after the last '/' or '\', or the whole path.
func leafName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}
