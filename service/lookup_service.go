package services

import (
	"fmt"
	"log"
	"strings"

	model "github.com/adelorme/qr1board/models"
)

// defaultLists seeds the board on first run. The values are the French
// shop-floor vocabulary the screens were built around.
var defaultLists = map[string][]string{
	"departments": {"ASSY", "Lean", "Maintenance", "Engi", "Qualité"},
	"types":       {"Sécurité", "Qualité", "Performance", "Flux", "5S / Ergonomie"},
	"m6":          {"Machine", "Méthode", "Main d’œuvre", "Matière", "Milieu", "Mesure"},
	"statuses":    {model.StatusTodo, model.StatusInProgress, model.StatusBlocked, model.StatusDone, model.StatusCancelled},
	"priorities":  {model.PriorityP1, model.PriorityP2, model.PriorityP3},
	"blockages": {
		"Attente diagnostic",
		"Attente pièce / spare",
		"Attente validation Qualité",
		"Attente fenêtre arrêt machine",
		"Attente décision Engi",
		"Attente formation / doc",
		"Autre",
	},
	"action_kinds": {"Containment", "Corrective", "Préventive", "Standardisation"},
}

// SeedDefaultLists installs the default lookup values, but only when the list
// store is entirely empty: once an operator has touched any list the defaults
// never come back on their own.
func (s *ActionService) SeedDefaultLists() error {
	var existing int64
	if err := s.db.Model(&model.ListValue{}).Count(&existing).Error; err != nil {
		log.Printf("[SeedDefaultLists] Error counting list values: %v", err)
		return fmt.Errorf("failed to count list values: %w", err)
	}
	if existing > 0 {
		return nil
	}

	for listName, values := range defaultLists {
		for _, v := range values {
			entry := model.ListValue{ListName: listName, Value: v}
			if err := s.db.Create(&entry).Error; err != nil {
				log.Printf("[SeedDefaultLists] Error seeding %s/%s: %v", listName, v, err)
				return fmt.Errorf("failed to seed list %s: %w", listName, err)
			}
		}
	}
	log.Println("[SeedDefaultLists] Default lookup lists seeded")
	return nil
}

// GetList returns the values of one lookup list, alphabetically sorted.
func (s *ActionService) GetList(listName string) ([]string, error) {
	var values []string
	err := s.db.Model(&model.ListValue{}).
		Where("list_name = ?", listName).
		Order("value ASC").
		Pluck("value", &values).Error
	if err != nil {
		log.Printf("[GetList] Error fetching list %s: %v", listName, err)
		return nil, fmt.Errorf("failed to fetch list %s: %w", listName, err)
	}
	return values, nil
}

// AddListValue appends a value to a list. The input is trimmed; empty or
// already-present values are a silent no-op.
func (s *ActionService) AddListValue(listName, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	var existing int64
	err := s.db.Model(&model.ListValue{}).
		Where("list_name = ? AND value = ?", listName, value).
		Count(&existing).Error
	if err != nil {
		log.Printf("[AddListValue] Error checking %s/%s: %v", listName, value, err)
		return fmt.Errorf("failed to check list value: %w", err)
	}
	if existing > 0 {
		return nil
	}

	entry := model.ListValue{ListName: listName, Value: value}
	if err := s.db.Create(&entry).Error; err != nil {
		log.Printf("[AddListValue] Error adding %s/%s: %v", listName, value, err)
		return fmt.Errorf("failed to add list value: %w", err)
	}
	return nil
}

// DeleteListValue removes a value from a list. Actions that referenced the
// value keep it; the binding is display-only.
func (s *ActionService) DeleteListValue(listName, value string) error {
	err := s.db.Where("list_name = ? AND value = ?", listName, value).
		Delete(&model.ListValue{}).Error
	if err != nil {
		log.Printf("[DeleteListValue] Error deleting %s/%s: %v", listName, value, err)
		return fmt.Errorf("failed to delete list value: %w", err)
	}
	return nil
}
