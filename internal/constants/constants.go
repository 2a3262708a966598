package constants

import "time"

// Centralized constants for env keys, routes and shared business values.
const (
	// Environment variable keys
	EnvSessionSecret      = "SESSION_SECRET"
	EnvGoogleClientID     = "GOOGLE_CLIENT_ID"
	EnvGoogleClientSecret = "GOOGLE_CLIENT_SECRET"
	EnvConfigPath         = "MCTG_CONFIG"
	EnvDBPath             = "MCTG_DB"
	EnvHealthAddr         = "MCTG_HEALTH_ADDR"

	// HTTP headers and content types
	HeaderAuthorization = "Authorization"
	HeaderBattleID      = "X-Battle-Id"

	ContentTypePlainText = "text/plain; charset=utf-8"

	// Authorization prefix
	BearerPrefix = "Bearer "

	// Google OAuth constants
	GoogleOAuthRedirect = "postmessage"
	GoogleUserInfoURL   = "https://www.googleapis.com/oauth2/v2/userinfo"

	// Administrative account allowed to create packages.
	AdminUsername = "admin"

	// Economy
	StarterCoins  = 20
	PackagePrice  = 5
	PackageSize   = 5
	DeckSize      = 4
	StartingElo   = 100
	SessionTTL    = 24 * time.Hour
)

var (
	// Scopes for Google userinfo
	GoogleUserInfoScopes = []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"}
)

// Routes used by the backend router
const (
	RouteAPIPrefix          = "/api"
	RouteUsers              = "/users"
	RouteUserByName         = "/users/:username"
	RouteSessions           = "/sessions"
	RoutePackages           = "/packages"
	RouteBuyPackage         = "/transactions/packages"
	RouteCards              = "/cards"
	RouteDeck               = "/deck"
	RouteStats              = "/stats"
	RouteScoreboard         = "/scoreboard"
	RouteTradings           = "/tradings"
	RouteTradingByID        = "/tradings/:tradeID"
	RouteBattles            = "/battles"
	RouteBattleLog          = "/battles/:battleID/log"
	RouteAuthGoogleCallBack = "/auth/google/oauth2callback"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
	JSONKeyDetails = "details"
	JSONKeyToken   = "token"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest   = "Invalid request"
	ErrInternal         = "Internal server error"
	ErrMissingGoogleEnv = "Missing GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET in environment"

	ErrAuthRequired   = "Authentication required"
	ErrInvalidSession = "Invalid session"
	ErrForbidden      = "Access denied"

	ErrUsernameTaken      = "Username already registered"
	ErrInvalidCredentials = "Invalid username or password"
	ErrUserNotFound       = "User not found"
	ErrFailedCreateUser   = "Failed to create user"
	ErrFailedUpdateUser   = "Failed to update user"

	ErrPackageMustHaveFive = "A package must contain exactly five cards"
	ErrCardIDTaken         = "A card with this ID already exists"
	ErrFailedCreatePackage = "Failed to create package"
	ErrNoPackageAvailable  = "No package available for purchase"
	ErrNotEnoughCoins      = "Not enough coins to buy a package"

	ErrFailedFetchCards = "Failed to fetch cards"
	ErrDeckNeedsFour    = "A deck must contain exactly four cards"
	ErrDeckNotOwned     = "Deck may only contain own cards"
	ErrFailedSaveDeck   = "Failed to save deck"

	ErrFailedFetchScoreboard = "Failed to fetch scoreboard"
	ErrFailedFetchStats      = "Failed to fetch stats"

	ErrTradeNotFound       = "Trade not found"
	ErrTradeIDTaken        = "A trade with this ID already exists"
	ErrCardNotOwned        = "Card is not owned by the requesting user"
	ErrCardInDeck          = "Cards in the configured deck cannot be traded"
	ErrSelfTrade           = "Trading with oneself is not allowed"
	ErrTradeRequirement    = "Offered card does not meet the trade requirements"
	ErrFailedCreateTrade   = "Failed to create trade"
	ErrFailedDeleteTrade   = "Failed to delete trade"
	ErrFailedExecuteTrade  = "Failed to execute trade"
	ErrTradeNotOwnedByUser = "Only the trade creator may delete it"

	ErrMatchmakingFailed  = "Matchmaking failed"
	ErrBattleNotFound     = "Battle not found"
	ErrFailedFetchLog     = "Failed to fetch battle log"
	ErrBattleWaitAborted  = "Battle wait aborted"

	ErrFailedExchangeToken    = "Failed to exchange token"
	ErrFailedGetUserInfo      = "Failed to get user info"
	ErrNoEmailInGoogleProfile = "No email in Google profile"
	ErrFailedCreateSession    = "Failed to create session"
)

// Logging field names
const (
	LogFieldBattleID = "battle_id"
	LogFieldUserID   = "user_id"
	LogFieldUsername = "username"
	LogFieldRounds   = "rounds"
	LogFieldOutcome  = "outcome"
	LogFieldAddr     = "addr"
	LogFieldAge      = "age_seconds"
)
