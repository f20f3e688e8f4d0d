// Package anilist holds the GraphQL documents and response shapes of the
// authenticated provider.
package anilist

// Operation names sent as operationName; they double as log and metric labels.
const (
	OpGetUserAnimeList  = "GetUserAnimeList"
	OpGetFavorites      = "GetFavorites"
	OpIsAnimeFavorite   = "IsAnimeFavorite"
	OpToggleFavorite    = "ToggleFavorite"
	OpGetAnimeStatus    = "GetAnimeStatus"
	OpSaveProgress      = "SaveProgress"
	OpUpdateAnimeStatus = "UpdateAnimeStatus"
	OpDeleteAnimeEntry  = "DeleteAnimeEntry"
)

const mediaFields = `
    id
    title { romaji english native }
    coverImage { extraLarge large medium }
    description(asHtml: false)
    averageScore
    episodes
    startDate { year month day }
    genres`

const entryFields = `
    id
    userId
    mediaId
    status
    progress
    score(format: POINT_100)`

// GetUserAnimeListQuery fetches a user's lists, optionally filtered by status.
const GetUserAnimeListQuery = `query GetUserAnimeList($userId: Int!, $status: MediaListStatus) {
  MediaListCollection(userId: $userId, type: ANIME, status: $status) {
    lists {
      name
      status
      entries {` + entryFields + `
        media {` + mediaFields + `
        }
      }
    }
  }
}`

// GetFavoritesQuery fetches the user's favourite anime.
const GetFavoritesQuery = `query GetFavorites($userId: Int!, $page: Int) {
  User(id: $userId) {
    favourites {
      anime(page: $page, perPage: 50) {
        nodes {` + mediaFields + `
        }
      }
    }
  }
}`

// IsAnimeFavoriteQuery reads the viewer's favourite flag of one media.
const IsAnimeFavoriteQuery = `query IsAnimeFavorite($mediaId: Int!) {
  Media(id: $mediaId, type: ANIME) {
    id
    isFavourite
  }
}`

// ToggleFavoriteMutation flips the favourite flag of one anime.
const ToggleFavoriteMutation = `mutation ToggleFavorite($animeId: Int!) {
  ToggleFavourite(animeId: $animeId) {
    anime {
      pageInfo { total }
    }
  }
}`

// GetAnimeStatusQuery reads the user's entry for one media. The server
// answers 404 when there is none.
const GetAnimeStatusQuery = `query GetAnimeStatus($userId: Int!, $mediaId: Int!) {
  MediaList(userId: $userId, mediaId: $mediaId) {` + entryFields + `
  }
}`

// SaveProgressMutation sets the watched episode count of an entry.
const SaveProgressMutation = `mutation SaveProgress($mediaId: Int!, $progress: Int!) {
  SaveMediaListEntry(mediaId: $mediaId, progress: $progress) {
    id
    progress
  }
}`

// UpdateAnimeStatusMutation sets the list status of an entry.
const UpdateAnimeStatusMutation = `mutation UpdateAnimeStatus($mediaId: Int!, $status: MediaListStatus!) {
  SaveMediaListEntry(mediaId: $mediaId, status: $status) {
    id
    status
  }
}`

// DeleteAnimeEntryMutation removes an entry by its own id (not the media id).
const DeleteAnimeEntryMutation = `mutation DeleteAnimeEntry($id: Int!) {
  DeleteMediaListEntry(id: $id) {
    deleted
  }
}`
