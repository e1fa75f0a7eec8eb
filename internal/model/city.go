package model

import "github.com/google/uuid"

type City struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	NamePT      string    `json:"name_pt"`
	NameEN      string    `json:"name_en"`
	NameES      string    `json:"name_es"`
	CountryCode string    `json:"country_code"`
	Zones       []Zone    `json:"zones" gorm:"-"`
}

type Zone struct {
	ID          uuid.UUID `json:"id"`
	CityID      uuid.UUID `json:"city_id"`
	Name        string    `json:"name"`
	NamePT      string    `json:"name_pt"`
	NameEN      string    `json:"name_en"`
	NameES      string    `json:"name_es"`
	CircuitCode *string   `json:"circuit_code"`
}

func (c City) DisplayName(lang string) string {
	return localized(lang, c.NamePT, c.NameEN, c.NameES, c.Name)
}

func (z Zone) DisplayName(lang string) string {
	return localized(lang, z.NamePT, z.NameEN, z.NameES, z.Name)
}
