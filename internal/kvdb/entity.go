package kvdb

// Entity is implemented by types storable through a Collection. Marshal
// produces the entity's encoded body (everything after the metadata-prefix
// byte Collection writes itself).
type Entity interface {
	Marshal() ([]byte, error)
}

// v1Metadata is the single prefix byte written before every entity's
// encoded body. Reads reject any other prefix value, so a future wire
// format change can introduce v2Metadata without silently misreading old
// values.
const v1Metadata byte = 0x00
