// Package prolly implements the Prolly Tree and Prolly List (spec.md
// §4.F/§4.G): content-addressed, structurally-shared ordered containers
// built by feeding each element's serialized bytes through the §4.E
// rolling hash and cutting a new node at every boundary. Grounded on the
// teacher's tree.TreeBuilder/TreeTraverser/DiffEngine, generalized from
// raw []byte KV pairs to fixity's Value sum type.
package prolly

import "github.com/fixitydb/fixity/internal/roller"

// chunkBySerializedBytes groups items into content-defined chunks: each
// item's serialized form is rolled through a fresh-window hasher, and a
// chunk boundary falls right after whichever item trips the rolling hash's
// boundary rule. Used identically by the Tree leaf/branch builder and the
// List leaf/branch builder (spec.md's five-step Create algorithm, step 2).
func chunkBySerializedBytes[T any](items []T, encode func(T) []byte) [][]T {
	if len(items) == 0 {
		return nil
	}
	r := roller.NewDefault()
	var chunks [][]T
	var current []T
	for _, item := range items {
		boundary := r.RollBytes(encode(item))
		current = append(current, item)
		if boundary {
			chunks = append(chunks, current)
			current = nil
			r.Reset()
		}
	}
	if len(current) > 0 {
		chunks = append(chunks, current)
	}
	return chunks
}
