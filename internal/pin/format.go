package pin

import (
	"regexp"
	"strconv"
	"strings"
)

// mentionToken matches user-mention tokens of the form <@U12345>.
var mentionToken = regexp.MustCompile(`<@([A-Z0-9]+)>`)

// Formatter converts raw remote items into canonical Rows.
//
// Formatting is pure: the only state consulted is the member directory
// snapshot captured at construction. No I/O, no clock.
type Formatter struct {
	dir MemberDirectory
}

// NewFormatter creates a Formatter over a member directory snapshot.
func NewFormatter(dir MemberDirectory) *Formatter {
	return &Formatter{dir: dir}
}

// FormatItem converts one item into a Row tagged Pinned=true.
//
// An item whose declared type lacks its payload is a MISSING_FIELD
// error; an item with an unrecognized type tag is UNKNOWN_ITEM_TYPE.
func (f *Formatter) FormatItem(item Item) (Row, error) {
	switch item.Type {
	case ItemTypeMessage:
		if item.Message == nil {
			return Row{}, NewMissingFieldError(item.id(), "message")
		}
		return f.formatMessage(*item.Message), nil
	case ItemTypeFile:
		if item.File == nil {
			return Row{}, NewMissingFieldError(item.id(), "file")
		}
		return f.formatFile(*item.File), nil
	default:
		return Row{}, NewUnknownItemTypeError(item.id(), item.Type)
	}
}

// FormatAll converts a fetched item list into Rows, preserving order.
// The first malformed item aborts the whole batch.
func (f *Formatter) FormatAll(items []Item) ([]Row, error) {
	rows := make([]Row, 0, len(items))
	for _, item := range items {
		row, err := f.FormatItem(item)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (f *Formatter) formatMessage(m MessageItem) Row {
	user := ""
	if m.User != "" {
		user = f.dir.Resolve(m.User)
	}
	text := ""
	if m.Text != "" {
		text = Unescape(m.Text, f.dir)
	}
	return Row{
		Timestamp: m.Timestamp,
		PostedAt:  postedAtFromMillis(timestampMillis(m.Timestamp)),
		User:      user,
		Text:      text,
		Pinned:    true,
	}
}

func (f *Formatter) formatFile(file FileItem) Row {
	return Row{
		Timestamp: formatFileID(file.ID),
		PostedAt:  postedAtFromMillis(file.Created * 1000),
		User:      f.dir.Resolve(file.User),
		Text:      Hyperlink(file.Permalink, file.Name),
		Pinned:    true,
	}
}

// Unescape canonicalizes message markup: it decodes the four entities
// the remote API escapes, then substitutes known user mentions.
//
// The ampersand entity is decoded LAST so that pre-escaped sequences
// like "&amp;lt;" decode to the literal "&lt;" instead of "<". Mention
// tokens whose id is absent from the directory are left verbatim,
// angle brackets included.
func Unescape(text string, dir MemberDirectory) string {
	text = strings.ReplaceAll(text, "&lt;", "<")
	text = strings.ReplaceAll(text, "&gt;", ">")
	text = strings.ReplaceAll(text, "&quot;", `"`)
	text = strings.ReplaceAll(text, "&amp;", "&")
	return substituteMentions(text, dir)
}

// substituteMentions replaces every <@USERID> token whose id resolves
// in the directory with "@" plus the display name. The directory is an
// explicit parameter: no state is captured by the replacement.
func substituteMentions(text string, dir MemberDirectory) string {
	return mentionToken.ReplaceAllStringFunc(text, func(token string) string {
		id := mentionToken.FindStringSubmatch(token)[1]
		name := dir.Resolve(id)
		if name == id {
			return token
		}
		return "@" + name
	})
}

// timestampMillis interprets an upstream timestamp string as fractional
// epoch seconds and converts it to epoch milliseconds. The text form of
// the timestamp remains the identity key; this conversion feeds the
// derived display instant only, so float rounding here is harmless.
func timestampMillis(ts string) int64 {
	seconds, err := strconv.ParseFloat(ts, 64)
	if err != nil {
		return 0
	}
	return int64(seconds * 1000)
}

func formatFileID(id int64) string {
	return strconv.FormatInt(id, 10)
}
