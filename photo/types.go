package photo

// MetadataRecord is one entry of the metadata.json sidecar.
type MetadataRecord struct {
	File     string         `json:"file"`
	Metadata map[string]any `json:"metadata"`
}

// CopyOutcome summarizes a metadata copy run. Success only reflects whether
// both directories could be listed; individual pair failures are counted.
type CopyOutcome struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Copied  int    `json:"copied"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
}

// ExtractionOutcome summarizes a metadata extraction run.
type ExtractionOutcome struct {
	Success    bool   `json:"success"`
	OutputPath string `json:"outputPath,omitempty"`
	Error      string `json:"error,omitempty"`
	Records    int    `json:"records"`
}

// ProcessingResult is the completion payload of a pipeline run.
type ProcessingResult struct {
	RunID              string            `json:"runId"`
	ResizeLog          string            `json:"resizeLog"`
	ExifLog            string            `json:"exifLog"`
	OutputPath         string            `json:"outputPath"`
	MetadataCopyResult CopyOutcome       `json:"metadataCopyResult"`
	MetadataExtraction ExtractionOutcome `json:"metadataExtraction"`
	ExifToolTime       string            `json:"exifToolTime"`
	MetadataTime       string            `json:"metadataTime"`
	TotalTime          string            `json:"totalTime"`
}

// PairResult describes one RAW/JPEG tag-copy attempt.
type PairResult struct {
	RawFile  string
	JPEGFile string
	Err      error
	Current  int // pairs finished so far, including this one
	Total    int // pairs matched in this run
}
