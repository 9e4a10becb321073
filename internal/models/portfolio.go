package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Portfolio sections. Each is an embedded array on the single portfolio document
// and the section name doubles as the bson field name.
const (
	SectionProducts = "products"
	SectionServices = "services"
	SectionProjects = "projects"
	SectionReviews  = "reviews"
)

var PortfolioSections = []string{SectionProducts, SectionServices, SectionProjects, SectionReviews}

func IsPortfolioSection(s string) bool {
	for _, section := range PortfolioSections {
		if s == section {
			return true
		}
	}
	return false
}

type PortfolioEntry struct {
	ID          primitive.ObjectID `json:"id" bson:"_id"`
	Title       string             `json:"title,omitempty" bson:"title,omitempty" validate:"max=200"`
	Description string             `json:"description,omitempty" bson:"description,omitempty" validate:"max=5000"`
	Image       string             `json:"image,omitempty" bson:"image,omitempty"`
	Gallery     []string           `json:"gallery,omitempty" bson:"gallery,omitempty" validate:"max=5"`
	Price       float64            `json:"price,omitempty" bson:"price,omitempty" validate:"gte=0"`
	Name        string             `json:"name,omitempty" bson:"name,omitempty" validate:"max=100"`
	Rating      int                `json:"rating,omitempty" bson:"rating,omitempty" validate:"gte=0,lte=5"`
	Comment     string             `json:"comment,omitempty" bson:"comment,omitempty" validate:"max=2000"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}

type Portfolio struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Products  []PortfolioEntry   `json:"products" bson:"products"`
	Services  []PortfolioEntry   `json:"services" bson:"services"`
	Projects  []PortfolioEntry   `json:"projects" bson:"projects"`
	Reviews   []PortfolioEntry   `json:"reviews" bson:"reviews"`
	Version   int64              `json:"version" bson:"version"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Section returns the entries stored under the named section.
func (p *Portfolio) Section(name string) []PortfolioEntry {
	switch name {
	case SectionProducts:
		return p.Products
	case SectionServices:
		return p.Services
	case SectionProjects:
		return p.Projects
	case SectionReviews:
		return p.Reviews
	}
	return nil
}
