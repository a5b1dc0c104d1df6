// Package seed provides the project and worker lists a fresh installation
// starts with.
package seed

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/rpggio/byggkoll/internal/domain/tracking"
)

// File is the YAML layout of a seed file.
type File struct {
	Projects []ProjectSeed `yaml:"projects"`
	Workers  []WorkerSeed  `yaml:"workers"`
}

type ProjectSeed struct {
	ID       string `yaml:"id"`
	Code     string `yaml:"code"`
	Name     string `yaml:"name"`
	Client   string `yaml:"client"`
	Location string `yaml:"location"`
}

type WorkerSeed struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// Builtin returns the lists shipped with the application.
func Builtin() tracking.Defaults {
	return tracking.Defaults{
		Projects: []tracking.Project{
			{ID: "1", Name: "Västkustens Rör Lokal", Code: "P2023-01", Location: "Herrestad"},
		},
		Workers: []tracking.Worker{
			{ID: "w1", Name: "Patrik"},
			{ID: "w2", Name: "Rickard"},
		},
	}
}

// Load reads defaults from a YAML file. An empty path yields Builtin.
// Entries without an id get one derived from their fields, so the same
// file yields the same ids on every start.
func Load(path string) (tracking.Defaults, error) {
	if path == "" {
		return Builtin(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return tracking.Defaults{}, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes seed YAML.
func Parse(data []byte) (tracking.Defaults, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return tracking.Defaults{}, fmt.Errorf("parse seed file: %w", err)
	}

	d := tracking.Defaults{
		Projects: make([]tracking.Project, 0, len(f.Projects)),
		Workers:  make([]tracking.Worker, 0, len(f.Workers)),
	}
	ids := derivedIDs{}
	for _, p := range f.Projects {
		if p.Name == "" {
			return tracking.Defaults{}, fmt.Errorf("parse seed file: project without name")
		}
		d.Projects = append(d.Projects, tracking.Project{
			ID:       ids.orDerive(p.ID, "project", p.Code, p.Name),
			Code:     p.Code,
			Name:     p.Name,
			Client:   p.Client,
			Location: p.Location,
		})
	}
	for _, w := range f.Workers {
		if w.Name == "" {
			return tracking.Defaults{}, fmt.Errorf("parse seed file: worker without name")
		}
		d.Workers = append(d.Workers, tracking.Worker{ID: ids.orDerive(w.ID, "worker", w.Name), Name: w.Name})
	}
	return d, nil
}

var seedNamespace = uuid.MustParse("5b0c7a4e-3f6d-4e21-9a57-1d8e2c6b9f30")

// derivedIDs names seed records without an explicit id. Repeated records
// get an occurrence counter so they stay distinct.
type derivedIDs map[string]int

func (d derivedIDs) orDerive(id string, fields ...string) string {
	if id != "" {
		return id
	}
	key := strings.Join(fields, "\x00")
	d[key]++
	if n := d[key]; n > 1 {
		key += "\x00" + strconv.Itoa(n)
	}
	return uuid.NewSHA1(seedNamespace, []byte(key)).String()
}
