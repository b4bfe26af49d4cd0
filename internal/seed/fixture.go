// Package seed loads YAML fixtures of users, profiles and subscriptions into
// a subtrack database through the regular domain services.
package seed

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/louisbranch/subtrack/internal/services/profiles/profile"
	"github.com/louisbranch/subtrack/internal/services/subscriptions/subscription"
	"gopkg.in/yaml.v3"
)

//go:embed fixtures/*.yaml
var fixturesFS embed.FS

// DemoFixture is the path of the embedded demo fixture.
const DemoFixture = "fixtures/demo.yaml"

// Fixture is the root of a seed file.
type Fixture struct {
	Users []UserFixture `yaml:"users"`
}

// UserFixture is one account with its profile and subscriptions.
type UserFixture struct {
	Email         string                `yaml:"email"`
	Password      string                `yaml:"password"`
	Profile       *ProfileFixture       `yaml:"profile"`
	Subscriptions []SubscriptionFixture `yaml:"subscriptions"`
}

// ProfileFixture holds profile fields.
type ProfileFixture struct {
	FullName    string `yaml:"full_name"`
	PhoneNumber string `yaml:"phone_number"`
}

// SubscriptionFixture holds one subscription as entered in the form.
type SubscriptionFixture struct {
	ServiceName string `yaml:"service_name"`
	MonthlyCost string `yaml:"monthly_cost"`
	BillingDay  int    `yaml:"billing_day"`
	Category    string `yaml:"category"`
	Color       string `yaml:"color"`
}

// Input returns the form payload for p.
func (p ProfileFixture) Input() profile.Input {
	return profile.Input{FullName: p.FullName, PhoneNumber: p.PhoneNumber}
}

// Input returns the form payload for s.
func (s SubscriptionFixture) Input() subscription.Input {
	return subscription.Input{
		ServiceName: s.ServiceName,
		MonthlyCost: s.MonthlyCost,
		BillingDay:  strconv.Itoa(s.BillingDay),
		Category:    s.Category,
		Color:       s.Color,
	}
}

// Decode reads a fixture and checks that every user has credentials and every
// subscription passes the same validation as the web form.
func Decode(r io.Reader) (Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f Fixture
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return Fixture{}, errors.New("fixture is empty")
		}
		return Fixture{}, fmt.Errorf("decode fixture: %w", err)
	}
	if err := f.Validate(); err != nil {
		return Fixture{}, err
	}
	return f, nil
}

// Validate reports the first invalid entry.
func (f Fixture) Validate() error {
	seen := make(map[string]struct{}, len(f.Users))
	for i, u := range f.Users {
		email := strings.ToLower(strings.TrimSpace(u.Email))
		if email == "" {
			return fmt.Errorf("users[%d]: email is required", i)
		}
		if _, dup := seen[email]; dup {
			return fmt.Errorf("users[%d]: duplicate email %q", i, email)
		}
		seen[email] = struct{}{}
		if u.Password == "" {
			return fmt.Errorf("users[%d]: password is required", i)
		}
		if u.Profile != nil {
			if _, err := profile.NormalizeInput(u.Profile.Input()); err != nil {
				return fmt.Errorf("users[%d].profile: %w", i, err)
			}
		}
		for j, s := range u.Subscriptions {
			if _, err := subscription.Normalize(s.Input()); err != nil {
				return fmt.Errorf("users[%d].subscriptions[%d]: %w", i, j, err)
			}
		}
	}
	return nil
}

// LoadFile decodes the fixture at path. An empty path loads the embedded demo
// fixture.
func LoadFile(path string) (Fixture, error) {
	if strings.TrimSpace(path) == "" {
		data, err := fixturesFS.ReadFile(DemoFixture)
		if err != nil {
			return Fixture{}, fmt.Errorf("read demo fixture: %w", err)
		}
		return Decode(bytes.NewReader(data))
	}
	file, err := os.Open(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("open fixture: %w", err)
	}
	defer file.Close()
	return Decode(file)
}
