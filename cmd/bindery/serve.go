package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"gopkg.in/yaml.v3"

	"github.com/draphael123/bindery/history"
	"github.com/draphael123/bindery/idgen"
	"github.com/draphael123/bindery/mergepipe"
)

const maxUploadBytes = 256 << 20

func cmdServe(args []string) {
	flags := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := flags.String("addr", ":8080", "listen address")
	journal := flags.String("journal", "", "merge journal database (optional)")
	flags.Parse(args)

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var store *history.Store
	if *journal != "" {
		var err error
		if store, err = history.Open(*journal); err != nil {
			fmt.Fprintf(os.Stderr, "journal: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
	}

	srv := &server{
		pipe:   mergepipe.New(mergepipe.Config{Logger: logger}),
		store:  store,
		logger: logger,
		newID:  idgen.Prefixed("in_", idgen.NanoID(10)),
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Get("/healthz", srv.handleHealth)
	r.Post("/merge", srv.handleMerge)
	r.Get("/history", srv.handleHistory)

	logger.Info("listening", "addr", *addr)
	if err := http.ListenAndServe(*addr, r); err != nil {
		fmt.Fprintf(os.Stderr, "serve: %v\n", err)
		os.Exit(1)
	}
}

type server struct {
	pipe   *mergepipe.Pipeline
	store  *history.Store
	logger *slog.Logger
	newID  idgen.Generator
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Write([]byte("ok"))
}

// handleMerge accepts a multipart form: one or more "files" parts in
// merge order, an optional "mode" value and an optional "options" value
// holding YAML merge options. Responds with the merged PDF.
func (s *server) handleMerge(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("parse form: %w", err))
		return
	}

	var opts mergepipe.MergeOptions
	if raw := r.FormValue("options"); raw != "" {
		if err := yaml.Unmarshal([]byte(raw), &opts); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("parse options: %w", err))
			return
		}
	}
	mode := mergepipe.OutputMode(r.FormValue("mode"))

	var inputs []mergepipe.InputItem
	for _, fh := range r.MultipartForm.File["files"] {
		f, err := fh.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("open %s: %w", fh.Filename, err))
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("read %s: %w", fh.Filename, err))
			return
		}
		inputs = append(inputs, mergepipe.InputItem{
			ID:          s.newID(),
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
			Size:        int64(len(data)),
			Selected:    true,
		})
	}

	outcome, err := s.pipe.Merge(r.Context(), inputs, mode, opts, nil)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, mergepipe.ErrNothingToMerge) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}

	if s.store != nil {
		s.store.Log(r.Context(), history.Record{
			Mode:       string(mode),
			OutputName: "merged.pdf",
			Inputs:     len(inputs),
			Succeeded:  outcome.Succeeded,
			Skipped:    outcome.Skipped,
			Errored:    outcome.Errored,
			PageCount:  outcome.PageCount,
			ByteSize:   outcome.ByteSize,
		})
	}

	summary, _ := json.Marshal(outcome)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="merged.pdf"`)
	w.Header().Set("X-Merge-Outcome", string(summary))
	w.Write(outcome.Output)
}

func (s *server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, errors.New("journal not enabled"))
		return
	}
	records, err := s.store.Recent(r.Context(), 20)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
