package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/ooad/textile-shop/internal/models"
	"github.com/ooad/textile-shop/internal/storage"
)

type WardrobeHandler struct {
	DB    *gorm.DB
	Files *storage.FileStore
}

func (h *WardrobeHandler) username(c echo.Context) (string, error) {
	userID, err := UserID(c)
	if err != nil {
		return "", err
	}
	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "unknown user")
	}
	return user.Username, nil
}

// UploadCloth stores one clothing item of the given kind. Common attributes
// land in the shared struct, kind-specific ones in the kind's own table.
func (h *WardrobeHandler) UploadCloth(c echo.Context) error {
	if _, err := h.username(c); err != nil {
		return err
	}

	kind := c.FormValue("kind")
	size, _ := strconv.ParseFloat(c.FormValue("size"), 64)
	attrs := models.ClothAttrs{
		Brand:       c.FormValue("brand"),
		Size:        size,
		SizeMetrics: c.FormValue("size_metrics"),
		Color:       c.FormValue("color"),
		Material:    c.FormValue("material"),
	}
	if attrs.Material == "" {
		attrs.Material = "Unknown"
	}

	if fh, err := c.FormFile("image"); err == nil {
		src, err := fh.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		defer src.Close()
		stored, err := h.Files.SaveImage(fh.Filename, src)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		attrs.ImgURL = stored
	}

	var created any
	switch kind {
	case models.ClothKindTshirt:
		item := models.Tshirt{
			ClothAttrs: attrs,
			SleeveType: c.FormValue("sleeve_type"),
			NeckType:   c.FormValue("neck_type"),
		}
		if err := h.DB.Create(&item).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		created = item
	case models.ClothKindJeans:
		item := models.Jeans{
			ClothAttrs: attrs,
			FitType:    c.FormValue("fit_type"),
		}
		if err := h.DB.Create(&item).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		created = item
	case models.ClothKindSkirt:
		item := models.Skirt{
			ClothAttrs: attrs,
			SkirtType:  c.FormValue("skirt_type"),
		}
		if err := h.DB.Create(&item).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		created = item
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "unknown cloth kind")
	}

	return c.JSON(http.StatusCreated, created)
}

type wardrobeListing struct {
	Tshirts []models.Tshirt `json:"tshirts"`
	Jeans   []models.Jeans  `json:"jeans"`
	Skirts  []models.Skirt  `json:"skirts"`
}

func (h *WardrobeHandler) listClothes() (*wardrobeListing, error) {
	var listing wardrobeListing
	if err := h.DB.Find(&listing.Tshirts).Error; err != nil {
		return nil, err
	}
	if err := h.DB.Find(&listing.Jeans).Error; err != nil {
		return nil, err
	}
	if err := h.DB.Find(&listing.Skirts).Error; err != nil {
		return nil, err
	}
	return &listing, nil
}

func (h *WardrobeHandler) GetOutfits(c echo.Context) error {
	listing, err := h.listClothes()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, listing)
}

func (h *WardrobeHandler) SetFavorite(c echo.Context) error {
	username, err := h.username(c)
	if err != nil {
		return err
	}

	var req struct {
		ClothID  string `json:"cloth_id"`
		Favorite bool   `json:"favorite"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.ClothID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "cloth_id is required")
	}

	var fav models.FavoriteCloth
	err = h.DB.Where("username = ? AND cloth_id = ?", username, req.ClothID).First(&fav).Error
	switch {
	case err == nil:
		fav.Favorite = req.Favorite
		if err := h.DB.Save(&fav).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		fav = models.FavoriteCloth{Username: username, ClothID: req.ClothID, Favorite: req.Favorite}
		if err := h.DB.Create(&fav).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, fav)
}

// VoteOutfit records a like or dislike for an outfit combination. Repeating
// the same verdict is a no-op.
func (h *WardrobeHandler) VoteOutfit(accepted bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		username, err := h.username(c)
		if err != nil {
			return err
		}

		var req struct {
			Code string `json:"code"`
		}
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		if req.Code == "" {
			return echo.NewHTTPError(http.StatusBadRequest, "code is required")
		}

		message := "added to favorites"
		if !accepted {
			message = "removed from favorites"
		}

		var vote models.OutfitVote
		err = h.DB.Where("code = ? AND username = ?", req.Code, username).First(&vote).Error
		switch {
		case err == nil:
			if vote.Accepted == accepted {
				if accepted {
					message = "already liked"
				} else {
					message = "already disliked"
				}
				return c.JSON(http.StatusOK, Response{Status: "ok", Message: message})
			}
			vote.Accepted = accepted
			if err := h.DB.Save(&vote).Error; err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			vote = models.OutfitVote{Code: req.Code, Username: username, Accepted: accepted}
			if err := h.DB.Create(&vote).Error; err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
			}
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, Response{Status: "ok", Message: message})
	}
}

func (h *WardrobeHandler) ShareWardrobe(c echo.Context) error {
	owner, err := h.username(c)
	if err != nil {
		return err
	}

	var req struct {
		Username string `json:"username"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Username == "" || req.Username == owner {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid username")
	}

	var share models.SharedWardrobe
	err = h.DB.Where("owner_username = ? AND shared_with_user = ?", owner, req.Username).First(&share).Error
	switch {
	case err == nil:
		if share.Active {
			return c.JSON(http.StatusOK, Response{Status: "ok", Message: "already shared"})
		}
		share.Active = true
		if err := h.DB.Save(&share).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, Response{Status: "ok", Message: "sharing reactivated"})
	case errors.Is(err, gorm.ErrRecordNotFound):
		share = models.SharedWardrobe{OwnerUsername: owner, SharedWithUser: req.Username, Active: true}
		if err := h.DB.Create(&share).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, Response{Status: "ok", Message: "shared successfully"})
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func (h *WardrobeHandler) UnshareWardrobe(c echo.Context) error {
	owner, err := h.username(c)
	if err != nil {
		return err
	}

	var req struct {
		Username string `json:"username"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var share models.SharedWardrobe
	err = h.DB.Where("owner_username = ? AND shared_with_user = ?", owner, req.Username).First(&share).Error
	if err != nil || !share.Active {
		return c.JSON(http.StatusOK, Response{Status: "ok", Message: "not currently shared"})
	}
	share.Active = false
	if err := h.DB.Save(&share).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, Response{Status: "ok", Message: "unshared successfully"})
}

func (h *WardrobeHandler) SharedWithMe(c echo.Context) error {
	username, err := h.username(c)
	if err != nil {
		return err
	}
	var shares []models.SharedWardrobe
	if err := h.DB.Where("shared_with_user = ? AND active = ?", username, true).Find(&shares).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, shares)
}

func (h *WardrobeHandler) SharedByMe(c echo.Context) error {
	username, err := h.username(c)
	if err != nil {
		return err
	}
	var shares []models.SharedWardrobe
	if err := h.DB.Where("owner_username = ?", username).Find(&shares).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, shares)
}

type favoriteItem[T any] struct {
	Item       T    `json:"item"`
	IsFavorite bool `json:"is_favorite"`
}

// SharedWardrobeItems lists a shared wardrobe with the viewer's favorite
// flags. Requires an active share from the owner to the caller.
func (h *WardrobeHandler) SharedWardrobeItems(c echo.Context) error {
	viewer, err := h.username(c)
	if err != nil {
		return err
	}
	owner := c.QueryParam("owner")
	if owner == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "owner is required")
	}

	var share models.SharedWardrobe
	err = h.DB.Where("owner_username = ? AND shared_with_user = ?", owner, viewer).First(&share).Error
	if err != nil || !share.Active {
		return echo.NewHTTPError(http.StatusForbidden, "wardrobe not shared")
	}

	listing, err := h.listClothes()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	var favorites []models.FavoriteCloth
	if err := h.DB.Where("username = ? AND favorite = ?", viewer, true).Find(&favorites).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	favSet := make(map[string]bool, len(favorites))
	for _, f := range favorites {
		favSet[f.ClothID] = true
	}

	tshirts := make([]favoriteItem[models.Tshirt], len(listing.Tshirts))
	for i, item := range listing.Tshirts {
		tshirts[i] = favoriteItem[models.Tshirt]{Item: item, IsFavorite: favSet[strconv.FormatUint(uint64(item.ID), 10)]}
	}
	jeans := make([]favoriteItem[models.Jeans], len(listing.Jeans))
	for i, item := range listing.Jeans {
		jeans[i] = favoriteItem[models.Jeans]{Item: item, IsFavorite: favSet[strconv.FormatUint(uint64(item.ID), 10)]}
	}
	skirts := make([]favoriteItem[models.Skirt], len(listing.Skirts))
	for i, item := range listing.Skirts {
		skirts[i] = favoriteItem[models.Skirt]{Item: item, IsFavorite: favSet[strconv.FormatUint(uint64(item.ID), 10)]}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"owner":   owner,
		"tshirts": tshirts,
		"jeans":   jeans,
		"skirts":  skirts,
	})
}
