package models

import (
	"time"
)

const (
	ClothKindTshirt = "tshirt"
	ClothKindJeans  = "jeans"
	ClothKindSkirt  = "skirt"
)

// ClothAttrs is the attribute set shared by every clothing kind. The kinds
// embed it instead of inheriting from a base record, one table per kind.
type ClothAttrs struct {
	Brand       string    `gorm:"not null" json:"brand"`
	Size        float64   `json:"size"`
	SizeMetrics string    `json:"size_metrics"`
	Color       string    `json:"color"`
	Material    string    `json:"material"`
	ImgURL      string    `json:"img_url"`
	CreatedAt   time.Time `json:"created_at"`
}

type Tshirt struct {
	ID         uint `gorm:"primaryKey;autoIncrement" json:"id"`
	ClothAttrs `gorm:"embedded"`
	SleeveType string `json:"sleeve_type"`
	NeckType   string `json:"neck_type"`
}

type Jeans struct {
	ID         uint `gorm:"primaryKey;autoIncrement" json:"id"`
	ClothAttrs `gorm:"embedded"`
	FitType    string `json:"fit_type"`
}

type Skirt struct {
	ID         uint `gorm:"primaryKey;autoIncrement" json:"id"`
	ClothAttrs `gorm:"embedded"`
	SkirtType  string `json:"skirt_type"`
}

type FavoriteCloth struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"              json:"id"`
	Username string `gorm:"index:idx_fav_user_cloth;not null"     json:"username"`
	ClothID  string `gorm:"index:idx_fav_user_cloth;not null"     json:"cloth_id"`
	Favorite bool   `gorm:"not null"                              json:"favorite"`
}

// OutfitVote records one user's verdict on a generated outfit combination.
type OutfitVote struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"               json:"id"`
	Code     string `gorm:"index:idx_vote_user_code;not null"      json:"code"`
	Username string `gorm:"index:idx_vote_user_code;not null"      json:"username"`
	Accepted bool   `gorm:"not null"                               json:"accepted"`
}

type SharedWardrobe struct {
	ID             uint   `gorm:"primaryKey;autoIncrement"           json:"id"`
	OwnerUsername  string `gorm:"index:idx_share_pair;not null"      json:"owner_username"`
	SharedWithUser string `gorm:"index:idx_share_pair;not null"      json:"shared_with_username"`
	Active         bool   `gorm:"not null"                           json:"active"`
}
