package storage

import (
	"encoding/json"
	"errors"

	"lightneat/internal/env"
)

const CurrentCodecVersion = 1

var ErrVersionMismatch = errors.New("record version mismatch")

type generationRecord struct {
	CodecVersion int                 `json:"codec_version"`
	Stats        env.GenerationStats `json:"stats"`
}

func EncodeGeneration(stats env.GenerationStats) ([]byte, error) {
	return json.Marshal(generationRecord{CodecVersion: CurrentCodecVersion, Stats: stats})
}

func DecodeGeneration(data []byte) (env.GenerationStats, error) {
	var rec generationRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return env.GenerationStats{}, err
	}
	if rec.CodecVersion != CurrentCodecVersion {
		return env.GenerationStats{}, ErrVersionMismatch
	}
	return rec.Stats, nil
}
