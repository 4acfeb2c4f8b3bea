package handlers

import (
	"encoding/json"
	"mime"
	"net/http"
	"strconv"

	"github.com/isdelr/employee-records/internal/auth"
	"github.com/isdelr/employee-records/internal/views"
	"github.com/rs/zerolog/log"
)

// maxBodyBytes bounds request bodies read by the handlers.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"msg": msg})
}

// decodePayload fills each target in dst from the JSON body or, for HTML
// forms, from the posted form values with the same key.
func decodePayload(w http.ResponseWriter, r *http.Request, dst map[string]*string) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return err
		}
		for key, target := range dst {
			switch v := body[key].(type) {
			case string:
				*target = v
			case float64:
				*target = strconv.FormatFloat(v, 'f', -1, 64)
			}
		}
		return nil
	}

	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return err
		}
	} else if err := r.ParseForm(); err != nil {
		return err
	}
	for key, target := range dst {
		*target = r.PostFormValue(key)
	}
	return nil
}

func render(w http.ResponseWriter, renderer views.Renderer, name string, page views.Page) {
	if err := renderer.Render(w, name, page); err != nil {
		log.Error().Err(err).Str("template", name).Msg("Failed to render page")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}

// page builds the template data for the authenticated user, if any.
func page(r *http.Request, title string) views.Page {
	p := views.Page{Title: title}
	if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
		p.Username = claims.Username
	}
	return p
}
