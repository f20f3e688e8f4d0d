package main

import (
	_ "embed"
	"encoding/json"
	"log"
	"math/rand/v2"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

//go:embed data.json
var jsonData []byte

type attributes struct {
	CanonicalTitle string `json:"canonicalTitle"`
	Status         string `json:"status"`
	PopularityRank *int   `json:"popularityRank"`
	RatingRank     *int   `json:"ratingRank"`
	UpdatedAt      string `json:"updatedAt"`
}

type resource struct {
	ID         string     `json:"id"`
	Attributes attributes `json:"attributes"`
}

type record struct {
	meta resource
	raw  json.RawMessage
}

// failRate is the share of requests answered with 503, read from
// FAIL_RATE (0..1).
var failRate float64

func main() {
	var raws []json.RawMessage
	if err := json.Unmarshal(jsonData, &raws); err != nil {
		log.Fatalf("[Provider B] Invalid data.json: %v", err)
	}
	records := make([]record, 0, len(raws))
	for _, raw := range raws {
		var res resource
		if err := json.Unmarshal(raw, &res); err != nil {
			log.Fatalf("[Provider B] Invalid record: %v", err)
		}
		records = append(records, record{meta: res, raw: raw})
	}

	failRate, _ = strconv.ParseFloat(os.Getenv("FAIL_RATE"), 64)

	http.HandleFunc("/anime", func(w http.ResponseWriter, r *http.Request) {
		if fail(w, r) {
			return
		}
		q := r.URL.Query()
		text := strings.ToLower(q.Get("filter[text]"))
		status := q.Get("filter[status]")

		items := make([]record, 0, len(records))
		for _, rec := range records {
			if text != "" && !strings.Contains(strings.ToLower(rec.meta.Attributes.CanonicalTitle), text) {
				continue
			}
			if status != "" && rec.meta.Attributes.Status != status {
				continue
			}
			items = append(items, rec)
		}
		sortRecords(items, q.Get("sort"))

		limit, _ := strconv.Atoi(q.Get("page[limit]"))
		offset, _ := strconv.Atoi(q.Get("page[offset]"))
		if limit < 1 || limit > 20 {
			limit = 10
		}
		start := min(max(offset, 0), len(items))
		end := min(start+limit, len(items))

		data := make([]json.RawMessage, 0, end-start)
		for _, rec := range items[start:end] {
			data = append(data, rec.raw)
		}
		write(w, r, http.StatusOK, map[string]any{
			"data": data,
			"meta": map[string]int{"count": len(items)},
		})
	})

	http.HandleFunc("/anime/", func(w http.ResponseWriter, r *http.Request) {
		if fail(w, r) {
			return
		}
		id := strings.TrimPrefix(r.URL.Path, "/anime/")
		for _, rec := range records {
			if rec.meta.ID == id {
				write(w, r, http.StatusOK, map[string]any{"data": rec.raw})
				return
			}
		}
		write(w, r, http.StatusNotFound, map[string]any{
			"errors": []map[string]string{{"title": "Record not found", "status": "404"}},
		})
	})

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		write(w, r, http.StatusOK, map[string]string{"status": "healthy"})
	})

	log.Printf("Mock Provider B running on :8082 (FAIL_RATE=%.2f)", failRate)
	log.Fatal(http.ListenAndServe(":8082", nil))
}

// sortRecords applies a JSON:API sort key; a leading "-" sorts descending.
// Missing ranks sort last.
func sortRecords(items []record, key string) {
	desc := strings.HasPrefix(key, "-")
	key = strings.TrimPrefix(key, "-")

	rank := func(p *int) int {
		if p == nil {
			return int(^uint(0) >> 1)
		}
		return *p
	}

	var less func(a, b attributes) bool
	switch key {
	case "popularityRank":
		less = func(a, b attributes) bool { return rank(a.PopularityRank) < rank(b.PopularityRank) }
	case "ratingRank":
		less = func(a, b attributes) bool { return rank(a.RatingRank) < rank(b.RatingRank) }
	case "updatedAt":
		less = func(a, b attributes) bool { return a.UpdatedAt < b.UpdatedAt }
	default:
		return
	}

	sort.SliceStable(items, func(i, j int) bool {
		if desc {
			return less(items[j].meta.Attributes, items[i].meta.Attributes)
		}
		return less(items[i].meta.Attributes, items[j].meta.Attributes)
	})
}

// fail answers 503 for a FAIL_RATE share of requests after simulated latency.
func fail(w http.ResponseWriter, r *http.Request) bool {
	// Simulate network latency (100-300ms)
	time.Sleep(time.Duration(100+rand.IntN(200)) * time.Millisecond)

	if failRate > 0 && rand.Float64() < failRate {
		write(w, r, http.StatusServiceUnavailable, map[string]any{
			"errors": []map[string]string{{"title": "simulated outage", "status": "503"}},
		})
		return true
	}
	return false
}

func write(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/vnd.api+json")
	w.Header().Set("X-Provider", "provider-b")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[Provider B] Write error: %v", err)
	}

	log.Printf("[Provider B] %s %s - %d", r.Method, r.URL.RequestURI(), status)
}
