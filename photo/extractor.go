package photo

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lepinkainen/photopipe/logging"
)

// Extractor collects embedded metadata from a directory into a JSON sidecar.
type Extractor struct {
	parser MetadataParser
	logger *slog.Logger
}

// NewExtractor creates an Extractor. A nil parser uses ExifParser.
func NewExtractor(parser MetadataParser, logger *slog.Logger) *Extractor {
	if parser == nil {
		parser = ExifParser{}
	}
	return &Extractor{parser: parser, logger: logging.OrDiscard(logger)}
}

// ExtractMetadata parses every supported image directly inside dir and writes
// the collected records to dir/metadata.json, replacing any previous sidecar.
// Files that fail to parse or carry no metadata are left out.
func (e *Extractor) ExtractMetadata(dir string) ExtractionOutcome {
	e.logger.Info("starting metadata extraction", "dir", dir)

	names, err := listFiles(dir)
	if err != nil {
		e.logger.Error("metadata extraction failed", "error", err)
		return ExtractionOutcome{Success: false, Error: err.Error()}
	}

	records := make([]MetadataRecord, 0, len(names))
	for _, name := range names {
		if name == SidecarName {
			continue
		}
		if !IsMetadataSource(name) {
			e.logger.Debug("not a supported image format", "file", name)
			continue
		}

		metadata, err := e.parser.Parse(filepath.Join(dir, name))
		if err != nil {
			e.logger.Warn("skipping file", "error", &ParseError{File: name, Err: err})
			continue
		}
		if len(metadata) == 0 {
			e.logger.Warn("no metadata found", "file", name)
			continue
		}
		records = append(records, MetadataRecord{File: name, Metadata: metadata})
	}

	outputPath := filepath.Join(dir, SidecarName)
	if err := writeSidecar(outputPath, records); err != nil {
		e.logger.Error("metadata extraction failed", "error", err)
		return ExtractionOutcome{Success: false, Error: err.Error()}
	}

	e.logger.Info("metadata saved", "path", outputPath, "records", len(records))
	return ExtractionOutcome{Success: true, OutputPath: outputPath, Records: len(records)}
}

func writeSidecar(path string, records []MetadataRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", SidecarName, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", SidecarName, err)
	}
	return nil
}
