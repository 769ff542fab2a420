package model

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

const DefaultPipelineCacheSize = 8

// PipelineFactory builds the engine configured for one E-value threshold.
type PipelineFactory func(evalue float64) Engine

// PipelineCache keeps the most recently used engines keyed by threshold.
type PipelineCache struct {
	cache   *lru.Cache[float64, Engine]
	factory PipelineFactory
}

func NewPipelineCache(size int, factory PipelineFactory) (*PipelineCache, error) {
	cache, err := lru.New[float64, Engine](size)
	if err != nil {
		return nil, err
	}
	return &PipelineCache{cache: cache, factory: factory}, nil
}

func (pc *PipelineCache) Get(evalue float64) Engine {
	if e, ok := pc.cache.Get(evalue); ok {
		return e
	}
	e := pc.factory(evalue)
	pc.cache.Add(evalue, e)
	return e
}

func (pc *PipelineCache) Len() int {
	return pc.cache.Len()
}
