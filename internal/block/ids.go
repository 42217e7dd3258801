package block

import (
	"strings"

	"github.com/google/uuid"
)

// idLength matches the length of IDs the editor generates itself
const idLength = 10

// NewID returns a fresh block ID
func NewID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:idLength]
}

// AssignIDs gives every block without an ID a fresh one. The host needs
// stable IDs to track blocks between saves; conversion ignores them.
func AssignIDs(doc *Document) {
	for _, b := range doc.Blocks {
		if b == nil || b.BlockID() != "" {
			continue
		}
		if s, ok := b.(interface{ setID(string) }); ok {
			s.setID(NewID())
		}
	}
}
