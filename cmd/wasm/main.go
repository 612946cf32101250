//go:build js && wasm

// Browser-side search over an articles.json snapshot. The page loads
// the snapshot once and then runs the same engine the server uses for
// its fallback path, so both rank identically.
package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/rehci/encyclopedia/internal/domain/article"
	"github.com/rehci/encyclopedia/internal/domain/search/filter"
	"github.com/rehci/encyclopedia/internal/engine"
	"github.com/rehci/encyclopedia/internal/usecase/snapshot"
)

var collection *article.Collection

func main() {
	c := make(chan struct{})

	js.Global().Set("encyclopediaLoad", js.FuncOf(loadSnapshot))
	js.Global().Set("encyclopediaSearch", js.FuncOf(searchArticles))
	js.Global().Set("encyclopediaCategories", js.FuncOf(listCategories))

	<-c
}

// loadSnapshot parses an articles.json payload and replaces the
// in-memory collection.
func loadSnapshot(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("usage: encyclopediaLoad(json)")
	}

	col, err := snapshot.Decode([]byte(args[0].String()))
	if err != nil {
		return makeError("invalid snapshot: " + err.Error())
	}
	collection = col

	return makeResult(map[string]interface{}{
		"success":  true,
		"articles": col.Len(),
	})
}

// searchArticles runs a query: encyclopediaSearch(query, [category], [tags...]).
func searchArticles(this js.Value, args []js.Value) interface{} {
	if collection == nil {
		return makeError("no snapshot loaded; call encyclopediaLoad first")
	}
	if len(args) < 1 {
		return makeError("usage: encyclopediaSearch(query, [category], [tags])")
	}

	query := args[0].String()

	category := ""
	if len(args) > 1 && args[1].Type() == js.TypeString {
		category = args[1].String()
	}

	var tags []string
	if len(args) > 2 && args[2].Type() == js.TypeObject {
		for i := 0; i < args[2].Length(); i++ {
			tags = append(tags, args[2].Index(i).String())
		}
	}

	fs, err := filter.New(category, tags)
	if err != nil {
		return makeError("invalid filter: " + err.Error())
	}

	hits := engine.Search(collection, query, fs)

	results := make([]map[string]interface{}, len(hits))
	for i, a := range hits {
		results[i] = map[string]interface{}{
			"slug":        a.Slug(),
			"title":       a.Title(),
			"description": a.Description(),
			"category":    a.Category(),
			"tags":        a.Tags(),
			"date":        a.Date(),
			"image":       a.Image(),
		}
	}

	return makeResult(map[string]interface{}{
		"results": results,
		"total":   len(results),
	})
}

// listCategories returns the distinct categories in first-seen order.
func listCategories(this js.Value, args []js.Value) interface{} {
	if collection == nil {
		return makeError("no snapshot loaded; call encyclopediaLoad first")
	}
	return makeResult(map[string]interface{}{
		"categories": collection.Categories(),
	})
}

func makeError(msg string) interface{} {
	result, _ := json.Marshal(map[string]interface{}{
		"error": msg,
	})
	return string(result)
}

func makeResult(data map[string]interface{}) interface{} {
	result, _ := json.Marshal(data)
	return string(result)
}
