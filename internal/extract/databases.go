package extract

import (
	"context"
	"sort"

	"github.com/reviewminer/reviewminer/internal/model"
)

const databasesQuery = "bibliographic databases searched"
const databasesK = 10
const maxDatabaseEvidence = 5

// Databases finds the bibliographic databases searched. The retrieved
// window is scanned entry by entry; when it yields nothing the full text
// is scanned instead. The list is canonical names, sorted.
func Databases(ctx context.Context, in *Input, ev *Evidence) *model.DatabaseSummary {
	window := in.window(ctx, databasesQuery, databasesK)

	found := make(map[string]bool)
	cited := 0
	for _, sentence := range window {
		hits := in.Vocab.Databases.FindAll(sentence)
		for _, hit := range hits {
			found[hit.Canonical] = true
		}
		if len(hits) > 0 && cited < maxDatabaseEvidence {
			ev.Add("databases", sentence)
			cited++
		}
	}
	if len(found) == 0 {
		for _, hit := range in.Vocab.Databases.FindAll(in.FullText) {
			found[hit.Canonical] = true
		}
	}
	if len(found) == 0 {
		return nil
	}

	list := make([]string, 0, len(found))
	for name := range found {
		list = append(list, name)
	}
	sort.Strings(list)
	return &model.DatabaseSummary{NumDatabases: len(list), DatabaseList: list}
}
