package database

const (
	DBKP_ACCOUNT = byte(iota + 1)

	DBKP_ACCOUNT_BLOCK
)

func EncodeKey(prefix byte, partionList ...[]byte) []byte {
	keyLen := 1
	for _, partion := range partionList {
		keyLen += len(partion)
	}

	key := make([]byte, 0, keyLen)
	key = append(key, prefix)
	for _, partion := range partionList {
		key = append(key, partion...)
	}
	return key
}
