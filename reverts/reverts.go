// Copyright (c) 2024 The LordChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"errors"
)

// ErrRevert aborts the current operation and rolls back all of its
// mutations and events. The code is a stable machine-readable name.
type ErrRevert struct {
	code string
}

func New(code string) *ErrRevert {
	return &ErrRevert{code: code}
}

func (e *ErrRevert) Error() string {
	return e.code
}

// Code returns the stable name of the revert reason.
func (e *ErrRevert) Code() string {
	return e.code
}

// IsRevertErr reports whether err (or anything it wraps) is a revert.
func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// Authorization reverts.
var (
	ErrNotAdmin               = New("NotAdmin")
	ErrNotOwner               = New("NotOwner")
	ErrNotPauser              = New("NotPauser")
	ErrNotGovernance          = New("NotGovernance")
	ErrNotValidator           = New("NotValidator")
	ErrNotRegisteredValidator = New("NotRegisteredValidator")
	ErrNotValidValidator      = New("NotValidValidator")
)

// Input validation reverts.
var (
	ErrZeroAddress            = New("ZeroAddress")
	ErrZeroAmount             = New("ZeroAmount")
	ErrWrongDuration          = New("WrongDuration")
	ErrWrongFee               = New("WrongFee")
	ErrWrongTime              = New("WrongTime")
	ErrWrongBoostTime         = New("WrongBoostTime")
	ErrQualityWrong           = New("QualityWrong")
	ErrInvalidWeight          = New("InvalidWeight")
	ErrInvalidTotalReward     = New("InvalidTotalReward")
	ErrInvalidTimePeriod      = New("InvalidTimePeriod")
	ErrNoSuchOption           = New("NoSuchOption")
	ErrPageOutOfBounds        = New("PageOutOfBounds")
	ErrInsufficientAmount     = New("InsufficientAmount")
	ErrInsufficientNPPoint    = New("InsufficientNPPoint")
	ErrInsufficientLockAmount = New("InsufficientLockAmount")
	ErrGreaterThanMaxTime     = New("GreaterThanMaxTime")
	ErrFeeTooHigh             = New("FeeTooHigh")
	ErrZeroFee                = New("ZeroFee")
	ErrZeroVelrds             = New("ZeroVelrds")
	ErrExceedsAvailableWeight = New("ExceedsAvailableWeight")
)

// State reverts.
var (
	ErrFactoryAlreadySet            = New("FactoryAlreadySet")
	ErrAlreadyLocked                = New("AlreadyLocked")
	ErrNoLockCreated                = New("NoLockCreated")
	ErrNoStakeFound                 = New("NoStakeFound")
	ErrTimeNotUp                    = New("TimeNotUp")
	ErrLockTimeExceeded             = New("LockTimeExceeded")
	ErrAutoMaxTime                  = New("AutoMaxTime")
	ErrAutoMaxNotEnabled            = New("AutoMaxNotEnabled")
	ErrTheSameValue                 = New("TheSameValue")
	ErrContractPaused               = New("ContractPaused")
	ErrStateUnchanged               = New("StateUnchanged")
	ErrRewardPeriodNotActive        = New("RewardPeriodNotActive")
	ErrStartTimeNotInFuture         = New("StartTimeNotInFuture")
	ErrEndTimeBeforeStartTime       = New("EndTimeBeforeStartTime")
	ErrStartTimeNotAsExpected       = New("StartTimeNotAsExpected")
	ErrSignatureExpired             = New("SignatureExpired")
	ErrVerificationFailed           = New("VerificationFailed")
	ErrValidatorIsClaimed           = New("ValidatorIsClaimed")
	ErrAlreadyPurchasedThisQuality  = New("AlreadyPurchasedThisQuality")
	ErrProposalHasStakedVotes       = New("ProposalHasStakedVotes")
	ErrUserIsVoted                  = New("UserIsVoted")
	ErrUserIsNotVoted               = New("UserIsNotVoted")
	ErrWrongStatus                  = New("WrongStatus")
	ErrVotingNotOpen                = New("VotingNotOpen")
	ErrRewardAlreadyClaimed         = New("RewardAlreadyClaimed")
	ErrRewardDistributionNotAllowed = New("RewardDistributionNotAllowed")
	ErrNoVotes                      = New("NoVotes")
	ErrRewardIsZero                 = New("RewardIsZero")
	ErrTimeIsNotUp                  = New("TimeIsNotUp")
	ErrNoReward                     = New("NoReward")
	ErrInvalidBoostReward           = New("InvalidBoostReward")
	ErrNotEnoughAmount              = New("NotEnoughAmount")
	ErrNotEnoughWallet              = New("NotEnoughWallet")
	ErrNotEnoughStakeToken          = New("NotEnoughStakeToken")
	ErrNotEnoughRewardToken         = New("NotEnoughRewardToken")
)
