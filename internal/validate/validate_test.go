// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yinhse00/SmartFinAI-sub003/pkg/types"
)

func newValidator() *Validator {
	return New(types.ValidationConfig{})
}

// completeRightsIssueAnswer covers every checklist element with a balanced
// six-row timetable table.
const completeRightsIssueAnswer = `The rights issue proceeds on the following timetable under the Listing Rules.

| Event | Date |
| Last day of dealing in shares on a cum-rights basis | 2 June 2025 |
| Ex-rights date | 3 June 2025 |
| Record date | 5 June 2025 |
| Commencement of nil-paid rights trading period | 10 June 2025 |
| Last day for acceptance and payment | 20 June 2025 |
| Refund cheques despatched | 27 June 2025 |

Shareholders may deal in nil-paid rights during the trading period shown above.
In summary, acceptance and payment must both complete by the stated payment date.`

func TestValidateEmptyAnswer(t *testing.T) {
	verdict := newValidator().Validate("   \n", types.QueryGeneral)

	assert.False(t, verdict.IsComplete)
	assert.Equal(t, types.ConfidenceHigh, verdict.Confidence)
	require.Len(t, verdict.MissingElements, 1)
	assert.Equal(t, "empty response", verdict.MissingElements[0])
}

func TestValidateCompleteRightsIssue(t *testing.T) {
	verdict := newValidator().Validate(completeRightsIssueAnswer, types.QueryRightsIssue)

	assert.True(t, verdict.IsComplete, "unexpected findings: %v", verdict.MissingElements)
	assert.False(t, verdict.IsTruncated)
	assert.Equal(t, types.ConfidenceLow, verdict.Confidence)
}

func TestValidateRightsIssueMissingElements(t *testing.T) {
	answer := "A rights issue lets shareholders subscribe for new shares in proportion to their holdings under the Listing Rules."

	verdict := newValidator().Validate(answer, types.QueryRightsIssue)

	require.False(t, verdict.IsComplete)
	assert.Equal(t, types.ConfidenceMedium, verdict.Confidence)
	assert.Contains(t, strings.Join(verdict.MissingElements, "; "), "ex-rights date")
	assert.Contains(t, strings.Join(verdict.MissingElements, "; "), "nil-paid rights trading period")
}

func TestValidateRightsIssueTimetableTooFewDates(t *testing.T) {
	answer := `The timetable runs as follows.

| Event | Date |
| Ex-rights date | 3 June 2025 |
| Record date | 5 June 2025 |

Nil-paid rights trading covers the dealing period, with acceptance and payment due after the record date. In summary the process completes within a month.`

	verdict := newValidator().Validate(answer, types.QueryRightsIssue)

	require.False(t, verdict.IsComplete)
	joined := strings.Join(verdict.MissingElements, "; ")
	assert.Contains(t, joined, "expected at least 6")
}

func TestValidateOpenOfferFrameworkConflict(t *testing.T) {
	answer := `An open offer is made under Chapter 7 of the Listing Rules. There are no nil-paid rights,
so the entitlement cannot be traded. A mandatory offer under Rule 26 of the Takeovers Code would
additionally require the offeror and persons acting in concert to extend the offer to all shareholders.`

	verdict := newValidator().Validate(answer, types.QueryOpenOffer)

	require.False(t, verdict.IsComplete)
	assert.Equal(t, types.ConfidenceHigh, verdict.Confidence)
	joined := strings.Join(verdict.MissingElements, "; ")
	assert.Contains(t, joined, "conflates frameworks")
	assert.Contains(t, joined, "mandatory offer")
}

func TestValidateOpenOfferComplete(t *testing.T) {
	answer := `An open offer is made under Chapter 7 of the Listing Rules. Unlike a rights issue there are
no nil-paid rights and the entitlement is not transferable, so shareholders who do not take up their
entitlement receive nothing for it. The subscription price discount limits in the chapter still apply.`

	verdict := newValidator().Validate(answer, types.QueryOpenOffer)

	assert.True(t, verdict.IsComplete, "unexpected findings: %v", verdict.MissingElements)
}

func TestValidateOpenOfferMissingNilPaidStatement(t *testing.T) {
	answer := "An open offer is made under Chapter 7 of the Listing Rules and the entitlement is offered to all qualifying shareholders at a fixed subscription price."

	verdict := newValidator().Validate(answer, types.QueryOpenOffer)

	require.False(t, verdict.IsComplete)
	assert.Contains(t, strings.Join(verdict.MissingElements, "; "),
		"no nil-paid rights are traded")
}

func TestValidateTakeoverRequiresCodeVocabulary(t *testing.T) {
	answer := "The acquirer must buy the remaining shares from all shareholders at the same price within the stated period."

	verdict := newValidator().Validate(answer, types.QueryTakeoverOffer)

	require.False(t, verdict.IsComplete)
	assert.Contains(t, strings.Join(verdict.MissingElements, "; "),
		"takeovers code framework")
}

func TestValidateWhitewashChecklist(t *testing.T) {
	answer := "A whitewash waiver under the Takeovers Code exempts the subscriber from the mandatory offer obligation, subject to independent shareholder approval."

	verdict := newValidator().Validate(answer, types.QueryWhitewash)

	require.False(t, verdict.IsComplete)
	assert.Contains(t, strings.Join(verdict.MissingElements, "; "), "dealing restrictions")
}

func TestValidateWhitewashComplete(t *testing.T) {
	answer := "A whitewash waiver under the Takeovers Code exempts the subscriber from the mandatory offer obligation. Dealing in the company's shares by the subscriber and its concert parties is restricted between announcement and completion; any disqualifying dealing voids the waiver."

	verdict := newValidator().Validate(answer, types.QueryWhitewash)

	assert.True(t, verdict.IsComplete, "unexpected findings: %v", verdict.MissingElements)
}

func TestValidateLongAnswerWithoutConclusion(t *testing.T) {
	paragraph := "The regulatory framework imposes detailed procedural requirements on the issuer at each stage of the transaction.\n"
	answer := strings.Repeat(paragraph, 40)
	require.Greater(t, len(answer), defaultLongAnswerThreshold)

	verdict := newValidator().Validate(answer, types.QueryGeneral)

	require.False(t, verdict.IsComplete)
	assert.Contains(t, strings.Join(verdict.MissingElements, "; "),
		"no concluding section")
	assert.False(t, verdict.IsTruncated)
}

func TestValidateLongAnswerWithConclusion(t *testing.T) {
	paragraph := "The regulatory framework imposes detailed procedural requirements on the issuer at each stage of the transaction.\n"
	answer := strings.Repeat(paragraph, 40) + "In summary, the issuer must follow each procedural step in order.\n"

	verdict := newValidator().Validate(answer, types.QueryGeneral)

	assert.True(t, verdict.IsComplete, "unexpected findings: %v", verdict.MissingElements)
}

func TestTruncationRules(t *testing.T) {
	long := strings.Repeat("The issuer must comply with the continuing obligations. ", 4)

	tests := []struct {
		name    string
		answer  string
		message string
		hard    bool
	}{
		{
			name:    "unterminated sentence",
			answer:  long + "The announcement must then be",
			message: "mid-sentence",
		},
		{
			name:    "unbalanced parentheses",
			answer:  "The waiver (granted under Note 1 remains conditional.",
			message: "unbalanced parentheses",
			hard:    true,
		},
		{
			name:    "unclosed code fence",
			answer:  "The calculation is:\n```\n50% of issued shares",
			message: "unclosed code fence",
			hard:    true,
		},
		{
			name:    "empty trailing list marker",
			answer:  "The conditions are:\n- shareholder approval\n- ",
			message: "empty item marker",
		},
		{
			name:    "dangling conjunction",
			answer:  long + "The offer must remain open for acceptance and",
			message: "ends abruptly",
		},
		{
			name:    "uneven table rows",
			answer:  "| Event | Date |\n| Ex-rights date | 3 June 2025 |\n| Record date |",
			message: "uneven column counts",
		},
		{
			name:    "unclosed markup",
			answer:  "The timetable is shown below.<table><tr><td>Record date</td></tr>",
			message: "unclosed <table> markup",
			hard:    true,
		},
	}

	v := newValidator()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			verdict := v.Validate(tc.answer, types.QueryGeneral)

			require.False(t, verdict.IsComplete)
			assert.True(t, verdict.IsTruncated)
			assert.Contains(t, strings.Join(verdict.MissingElements, "; "), tc.message)
			if tc.hard {
				assert.Equal(t, types.ConfidenceHigh, verdict.Confidence)
			} else {
				assert.Equal(t, types.ConfidenceMedium, verdict.Confidence)
			}
		})
	}
}

func TestCountDistinctDates(t *testing.T) {
	text := strings.ToLower("Ex-rights on 3 June 2025, record date 5 June 2025, payment by 2025-06-20, " +
		"refunds on 27/06/2025, trading from Day 10 to T+14, and again 3 June 2025.")

	assert.Equal(t, 6, countDistinctDates(text))
}

func TestTerminatedAnswerIsNotDangling(t *testing.T) {
	long := strings.Repeat("The issuer must comply with the continuing obligations. ", 4)
	verdict := newValidator().Validate(long+"This is what the shares are for.", types.QueryGeneral)

	assert.True(t, verdict.IsComplete, "unexpected findings: %v", verdict.MissingElements)
}
