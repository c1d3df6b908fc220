package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/ooad/textile-shop/internal/models"
	"github.com/ooad/textile-shop/internal/storage"
)

func newWardrobeHandler(t *testing.T, env *testEnv) *WardrobeHandler {
	t.Helper()
	files, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return &WardrobeHandler{DB: env.DB, Files: files}
}

func (env *testEnv) doForm(path string, fields map[string]string, userID uint) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(env.T, w.WriteField(k, v))
	}
	require.NoError(env.T, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	c.Set("userID", userID)
	c.Set("role", "user")
	return rec, c
}

func TestUploadCloth(t *testing.T) {
	env := newTestEnv(t)
	h := newWardrobeHandler(t, env)
	user := env.createUser("alice", "alice@example.com", "pw")

	rec, c := env.doForm("/wardrobe/clothes", map[string]string{
		"kind":        models.ClothKindTshirt,
		"brand":       "Uniqlo",
		"size":        "40",
		"color":       "white",
		"sleeve_type": "short",
		"neck_type":   "crew",
	}, user.ID)
	require.NoError(t, h.UploadCloth(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var saved models.Tshirt
	require.NoError(t, env.DB.First(&saved).Error)
	require.Equal(t, "Uniqlo", saved.Brand)
	require.Equal(t, "short", saved.SleeveType)
	require.Equal(t, "Unknown", saved.Material)
}

func TestUploadClothUnknownKind(t *testing.T) {
	env := newTestEnv(t)
	h := newWardrobeHandler(t, env)
	user := env.createUser("alice", "alice@example.com", "pw")

	_, c := env.doForm("/wardrobe/clothes", map[string]string{"kind": "hat"}, user.ID)
	require.Equal(t, http.StatusBadRequest, httpCode(t, h.UploadCloth(c)))
}

func TestSetFavoriteUpsert(t *testing.T) {
	env := newTestEnv(t)
	h := newWardrobeHandler(t, env)
	user := env.createUser("alice", "alice@example.com", "pw")

	rec, c := env.doJSON(http.MethodPost, "/wardrobe/favorites", map[string]any{"cloth_id": "7", "favorite": true}, user.ID, "user")
	require.NoError(t, h.SetFavorite(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// flipping the flag updates the same row
	_, c = env.doJSON(http.MethodPost, "/wardrobe/favorites", map[string]any{"cloth_id": "7", "favorite": false}, user.ID, "user")
	require.NoError(t, h.SetFavorite(c))

	var favs []models.FavoriteCloth
	require.NoError(t, env.DB.Find(&favs).Error)
	require.Len(t, favs, 1)
	require.False(t, favs[0].Favorite)
}

func TestVoteOutfitIdempotent(t *testing.T) {
	env := newTestEnv(t)
	h := newWardrobeHandler(t, env)
	user := env.createUser("alice", "alice@example.com", "pw")

	_, c := env.doJSON(http.MethodPost, "/wardrobe/outfits/like", map[string]any{"code": "1-2-3"}, user.ID, "user")
	require.NoError(t, h.VoteOutfit(true)(c))

	rec, c := env.doJSON(http.MethodPost, "/wardrobe/outfits/like", map[string]any{"code": "1-2-3"}, user.ID, "user")
	require.NoError(t, h.VoteOutfit(true)(c))
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "already liked", resp.Message)

	var votes []models.OutfitVote
	require.NoError(t, env.DB.Find(&votes).Error)
	require.Len(t, votes, 1)
	require.True(t, votes[0].Accepted)

	// a dislike flips the same vote
	_, c = env.doJSON(http.MethodPost, "/wardrobe/outfits/dislike", map[string]any{"code": "1-2-3"}, user.ID, "user")
	require.NoError(t, h.VoteOutfit(false)(c))
	require.NoError(t, env.DB.Find(&votes).Error)
	require.Len(t, votes, 1)
	require.False(t, votes[0].Accepted)
}

func TestShareWardrobeReactivation(t *testing.T) {
	env := newTestEnv(t)
	h := newWardrobeHandler(t, env)
	owner := env.createUser("alice", "alice@example.com", "pw")
	env.createUser("bob", "bob@example.com", "pw")

	_, c := env.doJSON(http.MethodPost, "/wardrobe/share", map[string]any{"username": "bob"}, owner.ID, "user")
	require.NoError(t, h.ShareWardrobe(c))

	_, c = env.doJSON(http.MethodPost, "/wardrobe/unshare", map[string]any{"username": "bob"}, owner.ID, "user")
	require.NoError(t, h.UnshareWardrobe(c))

	var share models.SharedWardrobe
	require.NoError(t, env.DB.First(&share).Error)
	require.False(t, share.Active)

	rec, c := env.doJSON(http.MethodPost, "/wardrobe/share", map[string]any{"username": "bob"}, owner.ID, "user")
	require.NoError(t, h.ShareWardrobe(c))
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "sharing reactivated", resp.Message)

	var count int64
	require.NoError(t, env.DB.Model(&models.SharedWardrobe{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestShareWardrobeWithSelf(t *testing.T) {
	env := newTestEnv(t)
	h := newWardrobeHandler(t, env)
	owner := env.createUser("alice", "alice@example.com", "pw")

	_, c := env.doJSON(http.MethodPost, "/wardrobe/share", map[string]any{"username": "alice"}, owner.ID, "user")
	require.Equal(t, http.StatusBadRequest, httpCode(t, h.ShareWardrobe(c)))
}

func TestSharedWardrobeItems(t *testing.T) {
	env := newTestEnv(t)
	h := newWardrobeHandler(t, env)
	owner := env.createUser("alice", "alice@example.com", "pw")
	viewer := env.createUser("bob", "bob@example.com", "pw")

	tshirt := models.Tshirt{ClothAttrs: models.ClothAttrs{Brand: "Levi's", Material: "cotton"}, SleeveType: "long"}
	require.NoError(t, env.DB.Create(&tshirt).Error)

	// not shared yet
	_, c := env.doJSON(http.MethodGet, "/wardrobe/shared/items?owner=alice", nil, viewer.ID, "user")
	require.Equal(t, http.StatusForbidden, httpCode(t, h.SharedWardrobeItems(c)))

	_, c = env.doJSON(http.MethodPost, "/wardrobe/share", map[string]any{"username": "bob"}, owner.ID, "user")
	require.NoError(t, h.ShareWardrobe(c))

	// viewer marks the tshirt as a favorite, annotation must follow
	_, c = env.doJSON(http.MethodPost, "/wardrobe/favorites", map[string]any{"cloth_id": "1", "favorite": true}, viewer.ID, "user")
	require.NoError(t, h.SetFavorite(c))

	rec, c := env.doJSON(http.MethodGet, "/wardrobe/shared/items?owner=alice", nil, viewer.ID, "user")
	require.NoError(t, h.SharedWardrobeItems(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Owner   string `json:"owner"`
		Tshirts []struct {
			Item       models.Tshirt `json:"item"`
			IsFavorite bool          `json:"is_favorite"`
		} `json:"tshirts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "alice", resp.Owner)
	require.Len(t, resp.Tshirts, 1)
	require.True(t, resp.Tshirts[0].IsFavorite)
}

func TestSharedListsActiveOnly(t *testing.T) {
	env := newTestEnv(t)
	h := newWardrobeHandler(t, env)
	owner := env.createUser("alice", "alice@example.com", "pw")
	viewer := env.createUser("bob", "bob@example.com", "pw")

	_, c := env.doJSON(http.MethodPost, "/wardrobe/share", map[string]any{"username": "bob"}, owner.ID, "user")
	require.NoError(t, h.ShareWardrobe(c))

	rec, c := env.doJSON(http.MethodGet, "/wardrobe/shared/with-me", nil, viewer.ID, "user")
	require.NoError(t, h.SharedWithMe(c))
	var shares []models.SharedWardrobe
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &shares))
	require.Len(t, shares, 1)

	_, c = env.doJSON(http.MethodPost, "/wardrobe/unshare", map[string]any{"username": "bob"}, owner.ID, "user")
	require.NoError(t, h.UnshareWardrobe(c))

	rec, c = env.doJSON(http.MethodGet, "/wardrobe/shared/with-me", nil, viewer.ID, "user")
	require.NoError(t, h.SharedWithMe(c))
	shares = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &shares))
	require.Empty(t, shares)
}
