package testutil

import (
	"fmt"
	"time"

	"predictarena/models"
)

// CreateTestPrediction creates an open prediction closing in an hour
func CreateTestPrediction(question string) *models.Prediction {
	return &models.Prediction{
		Question:       question,
		Category:       "sports",
		Options:        []string{"Yes", "No"},
		RequiredPT:     10,
		ClosesAt:       time.Now().Add(time.Hour),
		PredictionType: models.PredictionTypeDaily,
	}
}

// CreateTestPredictionWithOdds creates a prediction with explicit odds
func CreateTestPredictionWithOdds(question string, odds map[string]float64) *models.Prediction {
	p := CreateTestPrediction(question)
	p.Odds = odds
	return p
}

// CreateTestVote creates a vote on the given prediction
func CreateTestVote(userID, predictionID int64, option string, ptSpent int64) *models.Vote {
	return &models.Vote{
		UserID:         userID,
		PredictionID:   predictionID,
		OptionSelected: option,
		PTSpent:        ptSpent,
	}
}

// CreateTestChallenge creates a pending challenge
func CreateTestChallenge(predictionID, challengerID, opponentID, stake int64) *models.Challenge {
	return &models.Challenge{
		PredictionID:     predictionID,
		ChallengerID:     challengerID,
		OpponentID:       opponentID,
		ChallengerStake:  stake,
		ChallengerChoice: true,
	}
}

// CreateTestSweepstakes creates an open sweepstakes
func CreateTestSweepstakes(title string, entryCost int64) *models.Sweepstakes {
	return &models.Sweepstakes{
		Title:         title,
		Description:   "test sweepstakes",
		EntryCost:     entryCost,
		EntryCurrency: models.CurrencyET,
	}
}

// UniqueEmail returns an email unique within a test run
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d@example.com", prefix, time.Now().UnixNano())
}

// UniqueUsername returns a username unique within a test run
func UniqueUsername(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}
