package handlers

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"
)

//go:embed views/index.html
var views embed.FS

type index struct {
	page []byte
}

func newIndex(nodeHost string) (index, error) {
	tmpl, err := template.ParseFS(views, "views/index.html")
	if err != nil {
		return index{}, fmt.Errorf("parse index page: %w", err)
	}

	data := struct {
		EventsURL string
	}{
		EventsURL: "ws://" + strings.TrimPrefix(nodeHost, "http://") + "/v1/events",
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return index{}, fmt.Errorf("execute index page: %w", err)
	}

	return index{page: buf.Bytes()}, nil
}

func (ig index) handler(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, err := w.Write(ig.page)
	return err
}
