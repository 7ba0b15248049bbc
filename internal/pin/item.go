package pin

// ItemType tags the two kinds of pinned items the remote API returns.
type ItemType string

const (
	ItemTypeMessage ItemType = "message"
	ItemTypeFile    ItemType = "file"
)

// Item is a raw pinned item as fetched from the remote API.
//
// Exactly one payload pointer must be non-nil, matching Type. A nil
// payload for the declared type is a MISSING_FIELD error at format
// time, not a fetch error: the fetch layer passes items through as-is
// so a single malformed item is attributable to its id.
type Item struct {
	Type    ItemType
	Message *MessageItem
	File    *FileItem
}

// MessageItem is the message payload of a pinned item.
//
// Timestamp is the upstream identity key and is kept verbatim as text.
// It carries fractional-second precision that must never round-trip
// through a float.
type MessageItem struct {
	Timestamp string
	User      string
	Text      string
}

// FileItem is the file payload of a pinned item.
//
// ID is the file's numeric identifier; Created is its upload time in
// epoch seconds.
type FileItem struct {
	ID        int64
	Created   int64
	User      string
	Name      string
	Permalink string
}

// id returns a best-effort identifier for error context.
func (it Item) id() string {
	switch {
	case it.Message != nil:
		return it.Message.Timestamp
	case it.File != nil:
		return formatFileID(it.File.ID)
	default:
		return ""
	}
}
