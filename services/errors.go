package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
// Группировка повторяет таксономию: валидация, конфликт, состояние,
// авторизация, не найдено. Обработчики мапят их по errors.Is.
var (
	// Ресурс не найден
	ErrNotFound           = errors.New("requested resource not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrMatchNotFound      = errors.New("match not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrRoundNotFound      = errors.New("round not found")

	// Ошибки валидации
	ErrValidationFailed      = errors.New("validation failed")
	ErrMatchTimeNotFuture    = errors.New("match start time must be in the future")
	ErrPastMatchRosterSize   = errors.New("recorded past match requires exactly four players")
	ErrInvalidTeamSplit      = errors.New("team assignment must split the four approved players two and two")
	ErrNoCompleteSets        = errors.New("score must contain at least one complete set")
	ErrInvalidTiebreak       = errors.New("tiebreak is only valid for a 7-6 set and needs both values")
	ErrScoreSumMismatch      = errors.New("match score must sum to the tournament points per match")
	ErrInvalidFormat         = errors.New("unknown tournament format")
	ErrInvalidPointsPerMatch = errors.New("tournament points per match must be positive")
	ErrInvalidCapacity       = errors.New("tournament max teams must be at least two")
	ErrPartnerRequired       = errors.New("registration requires a distinct partner")
	ErrPasswordTooShort      = errors.New("password is too short")
	ErrEmailRequired         = errors.New("email is required")

	// Ошибки конфликтов
	ErrMatchFull              = errors.New("match already has four approved players")
	ErrAlreadyInMatch         = errors.New("player is already in the match roster")
	ErrSubmissionPending      = errors.New("a score submission is already awaiting confirmation")
	ErrScoreInFlight          = errors.New("match cannot be deleted while a score is being confirmed")
	ErrRegistrationConflict   = errors.New("player is already registered for this tournament")
	ErrTournamentFull         = errors.New("tournament registration is full")
	ErrRoundAlreadyGenerated  = errors.New("round has already been generated")
	ErrEmailTaken             = errors.New("email address is already in use")
	ErrTournamentNameConflict = errors.New("tournament name already exists")

	// Ошибки состояния: операция не подходит текущему статусу
	ErrMatchNotRecruiting           = errors.New("match is not recruiting players")
	ErrMatchNotFull                 = errors.New("match roster is not complete yet")
	ErrMatchNotAwaitingConfirmation = errors.New("match has no score awaiting confirmation")
	ErrMatchScoringStarted          = errors.New("match cannot be changed once scoring has started")
	ErrRegistrationClosed           = errors.New("tournament registration is not open")
	ErrTournamentNotActive          = errors.New("tournament is not in progress")
	ErrRoundIncomplete              = errors.New("current round still has unscored matches")
	ErrRoundsRemaining              = errors.New("tournament still has unfinished rounds")
	ErrNextRoundUnsupported         = errors.New("next round is only generated per round for mexicano tournaments")

	// Ошибки аутентификации и авторизации
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrForbiddenOperation  = errors.New("operation not allowed for the current user")
	ErrNotMatchCreator     = errors.New("only the match creator can perform this action")
	ErrNotMatchParticipant = errors.New("player is not an approved participant of the match")
	ErrSameTeamConfirm     = errors.New("score must be confirmed by the opposing team")
	ErrAdminOnly           = errors.New("only an administrator can perform this action")
)
