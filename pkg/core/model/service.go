// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ServiceType categorizes the additional services.
type ServiceType string

// Known service types.
const (
	ServiceInsurance ServiceType = "insurance"
	ServiceEquipment ServiceType = "equipment"
	ServiceDriver    ServiceType = "driver"
	ServiceOther     ServiceType = "other"
)

// Validate returns an error if st is not a known service type.
func (st ServiceType) Validate() error {
	switch st {
	case ServiceInsurance, ServiceEquipment, ServiceDriver, ServiceOther:
		return nil
	default:
		return fmt.Errorf("unknown service type: %q", string(st))
	}
}

// AdditionalService is an optional item (e.g., insurance or a child
// seat) which may be added to a booking and is charged per day.
// Services are never removed physically; clearing Active hides them
// from new bookings while the old bookings keep their snapshots.
type AdditionalService struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Type        ServiceType     `json:"type"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Snapshot returns the BookedService line item of s.
func (s *AdditionalService) Snapshot() BookedService {
	return BookedService{ServiceID: s.ID, Name: s.Name, Price: s.Price}
}

// ServicePatch lists the optional fields of an additional service
// which may be updated. The nil fields are left unchanged.
type ServicePatch struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Type        *ServiceType
	Active      *bool
}

// Apply updates s with the non-nil fields of p.
func (p ServicePatch) Apply(s *AdditionalService) {
	setIf(&s.Name, p.Name)
	setIf(&s.Description, p.Description)
	setIf(&s.Price, p.Price)
	setIf(&s.Type, p.Type)
	setIf(&s.Active, p.Active)
}
