package badger

// Key prefixes for different data types
const (
	wordVectorPrefix = "wvec:"
	libraryMetaKey   = "wmeta:dim"
)

// makeWordKey generates a key for a word vector.
// Format: prefix:word
func makeWordKey(word string) []byte {
	return []byte(wordVectorPrefix + word)
}
