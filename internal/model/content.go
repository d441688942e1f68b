package model

import "time"

// PageContent is a CMS-managed page body addressed by slug. Read-only here.
type PageContent struct {
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ServiceOffering is one entry of the services section.
type ServiceOffering struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Icon         string `json:"icon"`
	DisplayOrder int    `json:"displayOrder"`
	IsActive     bool   `json:"-"`
}

// TeamMember is one entry of the team section.
type TeamMember struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Role         string  `json:"role"`
	Bio          string  `json:"bio"`
	ImageURL     *string `json:"imageUrl"`
	DisplayOrder int     `json:"displayOrder"`
	IsActive     bool    `json:"-"`
}
