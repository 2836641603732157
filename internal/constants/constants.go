package constants

// Centralized constants for env keys, routes and shared strings.
const (
	// Environment variable keys
	EnvSessionSecret = "KOMBATS_SESSION_SECRET"

	// HTTP headers
	HeaderAuthorization = "Authorization"

	// Authorization prefix
	BearerPrefix = "Bearer "
)

// Routes used by the backend router
const (
	RouteAPIPrefix      = "/api"
	RouteBattles        = "/battles"
	RouteBattleByID     = "/battles/:battleID"
	RouteBattleEnd      = "/battles/:battleID/end"
	RouteBattleAction   = "/battles/:battleID/action"
	RouteBattleWS       = "/battles/:battleID/ws"
	RouteHealth         = "/health"
	RouteVersion        = "/version"
	RoutePlayerProfiles = "/players/:playerID/profile"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
	JSONKeyStatus  = "status"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest  = "Invalid request"
	ErrInvalidBattleID = "Invalid battle ID"
	ErrBattleNotFound  = "Battle not found"

	ErrFailedCreateBattle = "Failed to create battle"
	ErrFailedEndBattle    = "Failed to end battle"
	ErrFailedStoreAction  = "Failed to store action"
	ErrFailedFetchBattle  = "Failed to fetch battle"

	ErrPlayerNotInBattle = "Player not in this battle"

	ErrAuthRequired = "Authentication required"
	ErrInvalidToken = "Invalid token"
)

// Logging field names
const (
	LogFieldBattleID  = "battle_id"
	LogFieldMatchID   = "match_id"
	LogFieldPlayerID  = "player_id"
	LogFieldTurnIndex = "turn_index"
	LogFieldReason    = "reason"
	LogFieldWorkerID  = "worker_id"
	LogFieldAddr      = "addr"
)
