package ui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"carprice/domain/model"
)

// formField is one input derived from the metadata's feature lists.
type formField struct {
	Name  string
	Kind  string // "numeric" or "categorical"
	Value string // re-rendered after submit
}

// estimateResult carries the API's answer, or its error text verbatim.
type estimateResult struct {
	Price    float64
	HasPrice bool
	Err      string
}

// indexData is the template payload for the form page.
type indexData struct {
	HasModel bool
	Meta     *model.Metadata
	Fields   []formField
	Result   *estimateResult
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	a.renderIndex(w, nil, nil)
}

// handleEstimate assembles the request record from the form and invokes the
// prediction API; any error body is shown to the user as-is.
func (a *App) handleEstimate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		a.renderIndex(w, nil, &estimateResult{Err: "could not parse form: " + err.Error()})
		return
	}

	meta, err := a.store.LoadMetadata()
	if err != nil {
		a.renderIndex(w, nil, &estimateResult{Err: err.Error()})
		return
	}

	payload := make(map[string]interface{}, len(meta.NumericFeatures)+len(meta.CategoricalFeatures))
	values := make(map[string]string)
	for _, name := range meta.NumericFeatures {
		raw := strings.TrimSpace(r.FormValue(name))
		values[name] = raw
		if raw == "" {
			payload[name] = nil
			continue
		}
		// Forward unparsable numbers as-is; the API rejects them with a
		// message worth surfacing.
		var num float64
		if _, err := fmt.Sscanf(raw, "%g", &num); err == nil {
			payload[name] = num
		} else {
			payload[name] = raw
		}
	}
	for _, name := range meta.CategoricalFeatures {
		raw := strings.TrimSpace(r.FormValue(name))
		values[name] = raw
		if raw == "" {
			payload[name] = nil
			continue
		}
		payload[name] = raw
	}

	result := a.requestPrediction(payload)
	a.renderIndex(w, values, result)
}

// requestPrediction POSTs the assembled features to {API_URL}/predict.
func (a *App) requestPrediction(payload map[string]interface{}) *estimateResult {
	body, err := json.Marshal(payload)
	if err != nil {
		return &estimateResult{Err: "could not encode request: " + err.Error()}
	}

	resp, err := a.client.Post(a.config.APIURL+"/predict", "application/json", bytes.NewReader(body))
	if err != nil {
		return &estimateResult{Err: "could not reach the prediction API: " + err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &estimateResult{Err: "could not read API response: " + err.Error()}
	}

	if resp.StatusCode != http.StatusOK {
		return &estimateResult{Err: fmt.Sprintf("error %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))}
	}

	var parsed struct {
		Price float64 `json:"price"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &estimateResult{Err: "unexpected API response: " + err.Error()}
	}
	return &estimateResult{Price: parsed.Price, HasPrice: true}
}

// renderIndex builds the form from the metadata on every request, so a fresh
// training run is reflected without restarting the UI.
func (a *App) renderIndex(w http.ResponseWriter, values map[string]string, result *estimateResult) {
	data := indexData{Result: result}

	meta, err := a.store.LoadMetadata()
	if err == nil {
		data.HasModel = true
		data.Meta = meta
		for _, name := range meta.NumericFeatures {
			data.Fields = append(data.Fields, formField{Name: name, Kind: "numeric", Value: values[name]})
		}
		for _, name := range meta.CategoricalFeatures {
			data.Fields = append(data.Fields, formField{Name: name, Kind: "categorical", Value: values[name]})
		}
	}

	// Render to a buffer first so template errors never produce a torn page.
	var buf bytes.Buffer
	if err := a.templates.ExecuteTemplate(&buf, "index.html", data); err != nil {
		log.Printf("Template error for index.html: %v", err)
		http.Error(w, "template rendering failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("Error writing template response: %v", err)
	}
}
