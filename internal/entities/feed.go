package entities

// FeedCapacity bounds the combat log kept with a fight
const FeedCapacity = 32

// FeedAction is what happened in a feed entry
type FeedAction string

const (
	FeedAttack  FeedAction = "attack"
	FeedGuard   FeedAction = "guard"
	FeedItem    FeedAction = "item"
	FeedPump    FeedAction = "pump"
	FeedWipeout FeedAction = "wipeout"
	FeedResist  FeedAction = "resist"
)

// FeedEntry is one line of the combat log
type FeedEntry struct {
	Actor    Side       `json:"actor"`
	Action   FeedAction `json:"action"`
	Amount   int        `json:"amount,omitempty"`
	Critical bool       `json:"critical,omitempty"`
	Dodged   bool       `json:"dodged,omitempty"`
	Item     string     `json:"item,omitempty"`
}

// Feed is a bounded ring buffer of combat log entries
type Feed struct {
	entries []FeedEntry
	start   int
}

// NewFeed rebuilds a feed from entries in chronological order
func NewFeed(entries []FeedEntry) Feed {
	var f Feed
	for _, e := range entries {
		f.Append(e)
	}
	return f
}

// Append adds an entry, dropping the oldest when full
func (f *Feed) Append(e FeedEntry) {
	if len(f.entries) < FeedCapacity {
		f.entries = append(f.entries, e)
		return
	}
	f.entries[f.start] = e
	f.start = (f.start + 1) % FeedCapacity
}

// Len returns the number of entries held
func (f *Feed) Len() int {
	return len(f.entries)
}

// Entries returns every entry, oldest first
func (f *Feed) Entries() []FeedEntry {
	return f.Last(len(f.entries))
}

// Last returns up to n of the newest entries, oldest first
func (f *Feed) Last(n int) []FeedEntry {
	size := len(f.entries)
	if n > size {
		n = size
	}
	if n <= 0 {
		return nil
	}
	out := make([]FeedEntry, 0, n)
	for i := size - n; i < size; i++ {
		out = append(out, f.entries[(f.start+i)%size])
	}
	return out
}
