package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Course is the per-course YAML configuration (course.yaml). It describes
// the course itself; service-level settings stay in the environment.
type Course struct {
	Course struct {
		Name     string `yaml:"name"`
		Code     string `yaml:"code"`
		Semester string `yaml:"semester"`
	} `yaml:"course"`

	Processing struct {
		UseLLM   bool   `yaml:"use_llm"`
		LLMModel string `yaml:"llm_model"`
	} `yaml:"processing"`

	Navbar []struct {
		Name string `yaml:"name"`
		Link string `yaml:"link"`
	} `yaml:"navbar"`

	Paths struct {
		Source string `yaml:"source"`
		RawMD  string `yaml:"raw_md"`
		Output string `yaml:"output"`
	} `yaml:"paths"`
}

// LoadCourse reads and parses a course.yaml file.
func LoadCourse(path string) (Course, error) {
	var c Course
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("read course config: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("parse course config: %w", err)
	}
	if c.Course.Name == "" {
		c.Course.Name = "Unknown Course"
	}
	return c, nil
}
