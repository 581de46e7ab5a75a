package sheet

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/step1ne/enrich-cli/internal/model"
)

// Columns maps logical fields to spreadsheet column letters. The defaults
// match the production sheet layout; a YAML file can override them when a
// sheet is laid out differently.
type Columns struct {
	Name     string `yaml:"name"`
	Phone    string `yaml:"phone"`
	Email    string `yaml:"email"`
	Website  string `yaml:"website"`
	Listing  string `yaml:"listing"`
	Address  string `yaml:"address"`
	Industry string `yaml:"industry"`
	Services string `yaml:"services"`
	Status   string `yaml:"status"`
	Date     string `yaml:"date"`
	Owner    string `yaml:"owner"`
}

// DefaultColumns returns the production sheet layout.
func DefaultColumns() Columns {
	return Columns{
		Name:     "A",
		Phone:    "B",
		Email:    "C",
		Website:  "D",
		Listing:  "E",
		Address:  "F",
		Industry: "G",
		Services: "H",
		Status:   "I",
		Date:     "J",
		Owner:    "K",
	}
}

// LoadColumns reads a YAML column map, filling unset entries from the
// defaults.
func LoadColumns(path string) (Columns, error) {
	cols := DefaultColumns()
	data, err := os.ReadFile(path)
	if err != nil {
		return cols, eris.Wrapf(err, "sheet: read column map %s", path)
	}
	if err := yaml.Unmarshal(data, &cols); err != nil {
		return cols, eris.Wrapf(err, "sheet: parse column map %s", path)
	}
	return cols, nil
}

// ForField returns the column letter for an extractable field.
func (c Columns) ForField(name model.FieldName) string {
	switch name {
	case model.FieldPhone:
		return c.Phone
	case model.FieldEmail:
		return c.Email
	case model.FieldWebsite:
		return c.Website
	case model.FieldAddress:
		return c.Address
	case model.FieldIndustry:
		return c.Industry
	case model.FieldServices:
		return c.Services
	default:
		return ""
	}
}

// ColumnIndex converts a column letter to a zero-based index ("A" -> 0,
// "AA" -> 26). Returns -1 for anything that is not a column letter.
func ColumnIndex(column string) int {
	if column == "" {
		return -1
	}
	idx := 0
	for _, r := range column {
		if r < 'A' || r > 'Z' {
			return -1
		}
		idx = idx*26 + int(r-'A') + 1
	}
	return idx - 1
}
