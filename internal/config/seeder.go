package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SeedUser is one account created by the seeder
type SeedUser struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Phone    string `yaml:"phone"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
	Region   string `yaml:"region"`
}

// SeedFile is the YAML document accepted by `agrictl seed --file`
type SeedFile struct {
	Users []SeedUser `yaml:"users"`
}

// DemoUsers returns one account per role for local development.
// Never enable in production.
func DemoUsers() []SeedUser {
	return []SeedUser{
		{Name: "Demo Admin", Email: "admin@agriconnect.local", Phone: "0000000001", Password: "admin123", Role: "admin"},
		{Name: "Demo Agent", Email: "agent@agriconnect.local", Phone: "0000000002", Password: "agent123", Role: "agent", Region: "Punjab"},
		{Name: "Demo Farmer", Email: "farmer@agriconnect.local", Phone: "0000000003", Password: "farmer123", Role: "farmer", Region: "Punjab"},
	}
}

// LoadSeedFile reads seed users from a YAML file
func LoadSeedFile(path string) ([]SeedUser, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(raw)
}

// ParseSeed decodes a seed document and checks every entry names an account
func ParseSeed(raw []byte) ([]SeedUser, error) {
	var file SeedFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	for i, u := range file.Users {
		if strings.TrimSpace(u.Email) == "" || strings.TrimSpace(u.Phone) == "" {
			return nil, fmt.Errorf("seed user %d: email and phone are required", i+1)
		}
	}
	return file.Users, nil
}
