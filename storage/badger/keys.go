package badger

import (
	"fmt"

	"github.com/kotaelabs/kotae/core"
)

// Key prefixes for the record keyspace
const (
	recordPrefix    = "suprec:"
	recordIDSeq     = "suprecseq"
	dimensionMetaKey = "supmeta:dim"
)

// makeRecordKey generates a key for a support record. Records are keyed by
// the content hash of their URL, which is what makes upsert-by-URL work.
func makeRecordKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s%d", recordPrefix, id))
}
