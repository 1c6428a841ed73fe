// Reeldeck - Movie Recommendations and Trailer Discovery
// Copyright 2026 The Reeldeck Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reeldeck/reeldeck

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/reeldeck/reeldeck/internal/cache"
	"github.com/reeldeck/reeldeck/internal/dataset"
	"github.com/reeldeck/reeldeck/internal/metrics"
)

// ErrInvalidMode is returned for an unrecognized recommendation mode.
var ErrInvalidMode = errors.New("invalid recommendation mode")

// Engine answers similarity queries over the movie catalog. It is
// safe for concurrent use; queries keep serving the previous model
// while a retrain is in progress.
type Engine struct {
	config Config
	logger zerolog.Logger
	store  *dataset.Store

	algorithms map[string]Algorithm
	algMu      sync.RWMutex

	modelVersion  atomic.Int32
	trainMu       sync.RWMutex
	lastTrainedAt time.Time

	cache *cache.Cache
}

// NewEngine creates a recommendation engine over the loaded dataset.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg Config, store *dataset.Store, logger zerolog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	e := &Engine{
		config:     cfg,
		logger:     logger.With().Str("component", "recommend").Logger(),
		store:      store,
		algorithms: make(map[string]Algorithm),
	}
	if cfg.CacheTTL > 0 {
		e.cache = cache.New("recommend", cfg.CacheTTL)
	}
	return e, nil
}

// RegisterAlgorithm adds a similarity model. The engine expects the
// "content" and "itemcf" models to be registered before Train.
func (e *Engine) RegisterAlgorithm(alg Algorithm) {
	e.algMu.Lock()
	defer e.algMu.Unlock()

	e.algorithms[alg.Name()] = alg
	e.logger.Info().
		Str("algorithm", alg.Name()).
		Msg("registered algorithm")
}

// Train fits all registered algorithms in parallel. Called once at
// startup; the service does not serve recommendations until it
// completes.
func (e *Engine) Train(ctx context.Context) error {
	e.algMu.RLock()
	algorithms := make([]Algorithm, 0, len(e.algorithms))
	for _, alg := range e.algorithms {
		algorithms = append(algorithms, alg)
	}
	e.algMu.RUnlock()

	if len(algorithms) == 0 {
		return fmt.Errorf("no algorithms registered")
	}

	start := time.Now()
	var wg sync.WaitGroup
	errs := make([]error, len(algorithms))
	for i, alg := range algorithms {
		wg.Add(1)
		go func(i int, alg Algorithm) {
			defer wg.Done()
			algStart := time.Now()
			if err := alg.Train(ctx, e.store); err != nil {
				errs[i] = fmt.Errorf("train %s: %w", alg.Name(), err)
				return
			}
			elapsed := time.Since(algStart)
			metrics.TrainingDuration.WithLabelValues(alg.Name()).Observe(elapsed.Seconds())
			e.logger.Info().
				Str("algorithm", alg.Name()).
				Dur("elapsed", elapsed).
				Msg("algorithm trained")
		}(i, alg)
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return err
	}

	e.modelVersion.Add(1)
	e.trainMu.Lock()
	e.lastTrainedAt = time.Now()
	e.trainMu.Unlock()

	if e.cache != nil {
		e.cache.Clear()
	}

	e.logger.Info().
		Int("algorithms", len(algorithms)).
		Int("movies", e.store.NumMovies()).
		Dur("elapsed", time.Since(start)).
		Msg("training complete")
	return nil
}

// IsTrained reports whether every registered algorithm has a model.
func (e *Engine) IsTrained() bool {
	e.algMu.RLock()
	defer e.algMu.RUnlock()

	if len(e.algorithms) == 0 {
		return false
	}
	for _, alg := range e.algorithms {
		if !alg.IsTrained() {
			return false
		}
	}
	return true
}

// Close releases the response cache.
func (e *Engine) Close() {
	if e.cache != nil {
		e.cache.Close()
	}
}

// cacheParams is the cache key material for a recommendation request.
type cacheParams struct {
	Title string
	K     int
	Mode  Mode
}

// Recommend answers a similarity query. The returned list holds
// exactly req.K movies whenever the catalog has that many besides the
// query, ordered by algorithm coverage then descending score, the
// query movie excluded, ties broken by dataset order.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	req = e.prepareRequest(req)

	if !req.Mode.Valid() {
		metrics.RecommendErrors.WithLabelValues("invalid_mode").Inc()
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, req.Mode)
	}
	if !e.IsTrained() {
		metrics.RecommendErrors.WithLabelValues("not_trained").Inc()
		return nil, ErrNotTrained
	}

	query, ok := e.store.MovieByTitle(req.Title)
	if !ok {
		metrics.RecommendErrors.WithLabelValues("title_not_found").Inc()
		return nil, fmt.Errorf("%q: %w", req.Title, ErrTitleNotFound)
	}

	logger := e.logger.With().
		Str("request_id", req.RequestID).
		Str("title", req.Title).
		Str("mode", string(req.Mode)).
		Int("k", req.K).
		Logger()

	cacheKey := cache.GenerateKey("recommend", cacheParams{Title: req.Title, K: req.K, Mode: req.Mode})
	if resp := e.checkCache(cacheKey, req, start); resp != nil {
		logger.Debug().Msg("cache hit")
		return resp, nil
	}

	scored, algorithmsUsed, err := e.scoreNeighbors(ctx, query.Index, req.Mode)
	if err != nil {
		metrics.RecommendErrors.WithLabelValues("internal").Inc()
		return nil, err
	}

	items := rankAndTruncate(scored, req.K, query.Index, e.store)

	resp := &Response{
		Query: query,
		Items: items,
		Metadata: ResponseMetadata{
			RequestID:      req.RequestID,
			Mode:           string(req.Mode),
			K:              req.K,
			AlgorithmsUsed: algorithmsUsed,
			LatencyMS:      time.Since(start).Milliseconds(),
			ModelVersion:   int(e.modelVersion.Load()),
			TrainedAt:      e.trainedAt(),
			Timestamp:      time.Now(),
		},
	}

	if e.cache != nil {
		e.cache.Set(cacheKey, resp)
	}

	metrics.RecommendDuration.WithLabelValues(string(req.Mode)).Observe(time.Since(start).Seconds())
	logger.Debug().
		Int("returned", len(items)).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("recommendation complete")
	return resp, nil
}

// prepareRequest applies defaults and clamps K to the configured range.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(req Request) Request {
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	if req.Mode == "" {
		req.Mode = ModeContent
	}
	switch {
	case req.K == 0:
		req.K = e.config.DefaultK
	case req.K < e.config.MinK:
		req.K = e.config.MinK
	case req.K > e.config.MaxK:
		req.K = e.config.MaxK
	}
	return req
}

// checkCache returns a copy of a cached response adjusted for this
// request, or nil on a miss.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) checkCache(key string, req Request, start time.Time) *Response {
	if e.cache == nil {
		return nil
	}
	val, ok := e.cache.Get(key)
	if !ok {
		return nil
	}
	cached, ok := val.(*Response)
	if !ok {
		return nil
	}

	resp := *cached
	resp.Metadata.RequestID = req.RequestID
	resp.Metadata.CacheHit = true
	resp.Metadata.LatencyMS = time.Since(start).Milliseconds()
	resp.Metadata.Timestamp = time.Now()
	return &resp
}

// algWeight pairs an algorithm with its blend weight.
type algWeight struct {
	alg    Algorithm
	weight float64
}

// modeAlgorithms resolves the algorithms and weights for a mode.
func (e *Engine) modeAlgorithms(mode Mode) ([]algWeight, error) {
	e.algMu.RLock()
	defer e.algMu.RUnlock()

	lookup := func(name string) (Algorithm, error) {
		alg, ok := e.algorithms[name]
		if !ok {
			return nil, fmt.Errorf("algorithm %q not registered", name)
		}
		return alg, nil
	}

	switch mode {
	case ModeContent:
		alg, err := lookup("content")
		if err != nil {
			return nil, err
		}
		return []algWeight{{alg: alg, weight: 1}}, nil
	case ModeCollaborative:
		alg, err := lookup("itemcf")
		if err != nil {
			return nil, err
		}
		return []algWeight{{alg: alg, weight: 1}}, nil
	case ModeHybrid:
		content, err := lookup("content")
		if err != nil {
			return nil, err
		}
		itemcf, err := lookup("itemcf")
		if err != nil {
			return nil, err
		}
		cw, fw := e.config.normalizedWeights()
		return []algWeight{{alg: content, weight: cw}, {alg: itemcf, weight: fw}}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
}

// algResult holds one algorithm's neighbor scores.
type algResult struct {
	name   string
	weight float64
	scores map[int]float64
	err    error
}

// scoreNeighbors runs the mode's algorithms in parallel and blends
// their neighbor scores. The result maps dataset index to ScoredMovie
// without ranking applied.
func (e *Engine) scoreNeighbors(ctx context.Context, queryIndex int, mode Mode) (map[int]*ScoredMovie, []string, error) {
	weighted, err := e.modeAlgorithms(mode)
	if err != nil {
		return nil, nil, err
	}

	results := make([]algResult, len(weighted))
	var wg sync.WaitGroup
	for i, aw := range weighted {
		wg.Add(1)
		go func(i int, aw algWeight) {
			defer wg.Done()
			scores, err := aw.alg.PredictSimilar(ctx, queryIndex)
			results[i] = algResult{
				name:   aw.alg.Name(),
				weight: aw.weight,
				scores: scores,
				err:    err,
			}
		}(i, aw)
	}
	wg.Wait()

	blended := make(map[int]*ScoredMovie)
	var used []string
	for _, res := range results {
		if res.err != nil {
			return nil, nil, fmt.Errorf("predict %s: %w", res.name, res.err)
		}
		if len(res.scores) == 0 {
			continue
		}
		used = append(used, res.name)
		for idx, score := range res.scores {
			sm, ok := blended[idx]
			if !ok {
				sm = &ScoredMovie{Scores: make(map[string]float64, len(results))}
				blended[idx] = sm
			}
			sm.Score += res.weight * score
			sm.Scores[res.name] = score
		}
	}
	sort.Strings(used)
	return blended, used, nil
}

// rankAndTruncate orders blended scores and keeps the top k. Items
// scored by more algorithms rank first, then higher blended score,
// then dataset order. Rows shorter than k are backfilled with
// zero-score movies in dataset order, so a valid query always yields
// k items when the catalog allows it.
func rankAndTruncate(blended map[int]*ScoredMovie, k, queryIndex int, store *dataset.Store) []ScoredMovie {
	movies := store.Movies()
	items := make([]ScoredMovie, 0, len(blended))
	for idx, sm := range blended {
		sm.Movie = movies[idx]
		items = append(items, *sm)
	}

	sort.Slice(items, func(i, j int) bool {
		if len(items[i].Scores) != len(items[j].Scores) {
			return len(items[i].Scores) > len(items[j].Scores)
		}
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].Movie.Index < items[j].Movie.Index
	})

	if len(items) > k {
		return items[:k]
	}

	included := make(map[int]struct{}, len(items))
	for _, item := range items {
		included[item.Movie.Index] = struct{}{}
	}
	for idx := range movies {
		if len(items) == k {
			break
		}
		if idx == queryIndex {
			continue
		}
		if _, ok := included[idx]; ok {
			continue
		}
		items = append(items, ScoredMovie{Movie: movies[idx]})
	}
	return items
}

func (e *Engine) trainedAt() time.Time {
	e.trainMu.RLock()
	defer e.trainMu.RUnlock()
	return e.lastTrainedAt
}
