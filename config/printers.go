package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"labelprint-service/models"
)

type printerFile struct {
	Printers []models.Printer `yaml:"printers"`
}

// LoadPrinters returns the printer catalogue. A YAML file takes precedence
// over the comma separated list, whose printers accept any label type.
func LoadPrinters(path, list string) ([]models.Printer, error) {
	if path == "" {
		names := splitList(list)
		printers := make([]models.Printer, 0, len(names))
		for _, name := range names {
			printers = append(printers, models.Printer{Name: name})
		}
		return printers, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read printers file: %w", err)
	}

	var file printerFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse printers file %s: %w", path, err)
	}
	for i, p := range file.Printers {
		switch p.LabelType {
		case "", models.LabelTypeGeneral, models.LabelTypeReagentAliquot:
		default:
			return nil, fmt.Errorf("printer %d (%s): unknown label_type %q", i+1, p.Name, p.LabelType)
		}
	}
	return file.Printers, nil
}
