package domain

// Stage identifica la etapa del pipeline en la que se encuentra una peticion.
type Stage string

const (
	StageValidating   Stage = "validating"
	StageDecoding     Stage = "decoding"
	StageExtracting   Stage = "extracting"
	StageSynthesizing Stage = "synthesizing"
	StageGenerating   Stage = "generating"
	StageDone         Stage = "done"
	StageFailed       Stage = "failed"
)
