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

type anime struct {
	MalID      int     `json:"mal_id"`
	Title      string  `json:"title"`
	Score      float64 `json:"score"`
	Status     string  `json:"status"`
	Popularity int     `json:"popularity"`
}

type record struct {
	meta anime
	raw  json.RawMessage
}

// failRate is the share of catalogue requests answered with 503, read from
// FAIL_RATE (0..1).
var failRate float64

func main() {
	var raws []json.RawMessage
	if err := json.Unmarshal(jsonData, &raws); err != nil {
		log.Fatalf("[Provider A] Invalid data.json: %v", err)
	}
	records := make([]record, 0, len(raws))
	for _, raw := range raws {
		var a anime
		if err := json.Unmarshal(raw, &a); err != nil {
			log.Fatalf("[Provider A] Invalid record: %v", err)
		}
		records = append(records, record{meta: a, raw: raw})
	}

	failRate, _ = strconv.ParseFloat(os.Getenv("FAIL_RATE"), 64)

	http.HandleFunc("/anime", serve(func(r *http.Request) []record {
		q := strings.ToLower(r.URL.Query().Get("q"))
		return filter(records, func(a anime) bool { return strings.Contains(strings.ToLower(a.Title), q) })
	}))
	http.HandleFunc("/top/anime", serve(func(r *http.Request) []record {
		out := filter(records, func(a anime) bool {
			return r.URL.Query().Get("filter") != "airing" || a.Status == "Currently Airing"
		})
		if r.URL.Query().Get("filter") == "bypopularity" {
			sort.SliceStable(out, func(i, j int) bool { return out[i].meta.Popularity < out[j].meta.Popularity })
		} else {
			sort.SliceStable(out, func(i, j int) bool { return out[i].meta.Score > out[j].meta.Score })
		}
		return out
	}))
	http.HandleFunc("/seasons/now", serve(func(*http.Request) []record {
		return filter(records, func(a anime) bool { return a.Status == "Currently Airing" })
	}))
	http.HandleFunc("/seasons/upcoming", serve(func(*http.Request) []record {
		return filter(records, func(a anime) bool { return a.Status == "Not yet aired" })
	}))

	http.HandleFunc("/anime/", func(w http.ResponseWriter, r *http.Request) {
		if fail(w, r) {
			return
		}
		id, _ := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/anime/"))
		for _, rec := range records {
			if rec.meta.MalID == id {
				write(w, r, http.StatusOK, map[string]any{"data": rec.raw})
				return
			}
		}
		write(w, r, http.StatusNotFound, map[string]any{"status": 404, "message": "Resource does not exist"})
	})

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		write(w, r, http.StatusOK, map[string]string{"status": "healthy"})
	})

	log.Printf("Mock Provider A running on :8081 (FAIL_RATE=%.2f)", failRate)
	server := &http.Server{
		Addr:         ":8081",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}

func serve(pick func(*http.Request) []record) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if fail(w, r) {
			return
		}
		page, limit := paging(r)
		items := pick(r)

		start := min((page-1)*limit, len(items))
		end := min(start+limit, len(items))
		data := make([]json.RawMessage, 0, end-start)
		for _, rec := range items[start:end] {
			data = append(data, rec.raw)
		}

		write(w, r, http.StatusOK, map[string]any{
			"data": data,
			"pagination": map[string]any{
				"current_page":      page,
				"has_next_page":     end < len(items),
				"last_visible_page": (len(items) + limit - 1) / limit,
			},
		})
	}
}

func filter(records []record, keep func(anime) bool) []record {
	out := make([]record, 0, len(records))
	for _, rec := range records {
		if keep(rec.meta) {
			out = append(out, rec)
		}
	}
	return out
}

func paging(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 25 {
		limit = 25
	}
	return page, limit
}

// fail answers 503 for a FAIL_RATE share of requests after simulated latency.
func fail(w http.ResponseWriter, r *http.Request) bool {
	// Simulate network latency (50-200ms)
	time.Sleep(time.Duration(50+rand.IntN(150)) * time.Millisecond)

	if failRate > 0 && rand.Float64() < failRate {
		write(w, r, http.StatusServiceUnavailable, map[string]any{"status": 503, "message": "simulated outage"})
		return true
	}
	return false
}

func write(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Provider", "provider-a")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[Provider A] Write error: %v", err)
	}

	log.Printf("[Provider A] %s %s - %d", r.Method, r.URL.RequestURI(), status)
}
