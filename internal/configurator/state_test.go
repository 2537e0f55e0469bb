package configurator

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleAnswers = []string{"House", "Yes", "Good", "No", "Security"}

func completeContact() Contact {
	return Contact{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com"}
}

func answerAll(t *testing.T, r *RunState) {
	t.Helper()
	for _, v := range sampleAnswers {
		require.NoError(t, r.Select(v))
	}
}

func TestNew_StartsOnFirstQuestion(t *testing.T) {
	r := New(5, false)

	assert.Equal(t, StageQuestion, r.Stage())
	assert.Equal(t, 1, r.Step())
	assert.Empty(t, r.Answers())
	assert.Equal(t, Contact{}, r.Contact())
	assert.NotEmpty(t, r.ID())
	assert.False(t, r.Submitted())
}

func TestSelect_RecordsAndAdvances(t *testing.T) {
	r := New(5, false)

	require.NoError(t, r.Select("House"))
	assert.Equal(t, 2, r.Step())
	assert.Equal(t, Forward, r.Direction())
	v, ok := r.Answer(1)
	assert.True(t, ok)
	assert.Equal(t, "House", v)

	_, ok = r.Answer(2)
	assert.False(t, ok, "step 2 not yet answered")
}

func TestSelect_LastQuestionGoesToContact(t *testing.T) {
	r := New(5, false)
	answerAll(t, r)

	assert.Equal(t, StageContact, r.Stage())
	assert.Equal(t, map[int]string{1: "House", 2: "Yes", 3: "Good", 4: "No", 5: "Security"}, r.Answers())
}

func TestSelect_OutsideQuestionStage(t *testing.T) {
	r := New(5, false)
	answerAll(t, r)

	err := r.Select("extra")
	assert.True(t, errors.Is(err, ErrInvalidTransition))
	assert.Len(t, r.Answers(), 5)
}

func TestAnswers_ReturnsCopy(t *testing.T) {
	r := New(5, false)
	require.NoError(t, r.Select("House"))

	a := r.Answers()
	a[1] = "Castle"
	a[9] = "bogus"

	v, _ := r.Answer(1)
	assert.Equal(t, "House", v)
	assert.Len(t, r.Answers(), 1)
}

func TestFullRun_SixForwardTransitions(t *testing.T) {
	r := New(5, false)
	transitions := 0

	for _, v := range sampleAnswers {
		require.NoError(t, r.Select(v))
		transitions++
	}
	r.SetContact(completeContact())
	require.True(t, r.SubmitContact())
	transitions++

	assert.Equal(t, 6, transitions)
	assert.Equal(t, StageResult, r.Stage())
}

func TestFullRun_WithProcessing(t *testing.T) {
	r := New(5, true)
	answerAll(t, r)
	r.SetContact(completeContact())

	require.True(t, r.SubmitContact())
	assert.Equal(t, StageProcessing, r.Stage())

	require.True(t, r.FinishProcessing(r.Epoch()))
	assert.Equal(t, StageResult, r.Stage())
}

func TestSubmitContact_RejectsMissingRequired(t *testing.T) {
	cases := map[string]Contact{
		"first name": {LastName: "Doe", Email: "jane@example.com"},
		"last name":  {FirstName: "Jane", Email: "jane@example.com"},
		"email":      {FirstName: "Jane", LastName: "Doe"},
		"blank":      {FirstName: "   ", LastName: "Doe", Email: "jane@example.com"},
	}

	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			r := New(5, false)
			answerAll(t, r)
			r.SetContact(c)

			assert.False(t, r.SubmitContact())
			assert.Equal(t, StageContact, r.Stage())
			assert.Equal(t, c, r.Contact())
		})
	}
}

func TestSubmitContact_PhoneOptional(t *testing.T) {
	r := New(5, false)
	answerAll(t, r)
	c := completeContact()
	c.Phone = ""
	r.SetContact(c)

	assert.True(t, r.SubmitContact())
}

func TestSubmitContact_NoFormatCheck(t *testing.T) {
	r := New(5, false)
	answerAll(t, r)
	r.SetContact(Contact{FirstName: "J", LastName: "D", Email: "not-an-email"})

	assert.True(t, r.SubmitContact())
}

func TestSubmitContact_WrongStage(t *testing.T) {
	r := New(5, false)
	assert.False(t, r.SubmitContact())
	assert.Equal(t, StageQuestion, r.Stage())
}

func TestSetContactField_Keystrokes(t *testing.T) {
	r := New(5, false)
	r.SetContactField(FieldFirstName, "ignored")
	assert.Equal(t, "", r.Contact().FirstName, "contact updates outside contact stage are dropped")

	answerAll(t, r)
	for _, s := range []string{"J", "Ja", "Jan", "Jane"} {
		r.SetContactField(FieldFirstName, s)
	}
	r.SetContactField(FieldLastName, "Doe")
	r.SetContactField(FieldEmail, "jane@example.com")
	r.SetContactField(FieldPhone, "0600000000")

	assert.Equal(t, Contact{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Phone: "0600000000"}, r.Contact())
}

func TestReset_FromEveryStage(t *testing.T) {
	reach := map[Stage]func(t *testing.T, r *RunState){
		StageQuestion: func(t *testing.T, r *RunState) { require.NoError(t, r.Select("House")) },
		StageContact:  func(t *testing.T, r *RunState) { answerAll(t, r) },
		StageProcessing: func(t *testing.T, r *RunState) {
			answerAll(t, r)
			r.SetContact(completeContact())
			r.SubmitContact()
		},
		StageResult: func(t *testing.T, r *RunState) {
			answerAll(t, r)
			r.SetContact(completeContact())
			r.SubmitContact()
			r.FinishProcessing(r.Epoch())
		},
	}

	for stage, setup := range reach {
		t.Run(stage.String(), func(t *testing.T) {
			r := New(5, true)
			setup(t, r)
			require.Equal(t, stage, r.Stage())

			r.Reset()
			assert.Equal(t, StageQuestion, r.Stage())
			assert.Equal(t, 1, r.Step())
			assert.Empty(t, r.Answers())
			assert.Equal(t, Contact{}, r.Contact())
			assert.Equal(t, Backward, r.Direction())
		})
	}
}

func TestReset_Idempotent(t *testing.T) {
	r := New(5, false)
	answerAll(t, r)
	r.SetContact(completeContact())
	require.True(t, r.SubmitContact())

	r.Reset()
	onceStage, onceStep, onceAnswers, onceContact := r.Stage(), r.Step(), r.Answers(), r.Contact()
	r.Reset()

	assert.Equal(t, onceStage, r.Stage())
	assert.Equal(t, onceStep, r.Step())
	assert.Equal(t, onceAnswers, r.Answers())
	assert.Equal(t, onceContact, r.Contact())
}

func TestReset_NewRunIdentity(t *testing.T) {
	r := New(5, false)
	id, epoch := r.ID(), r.Epoch()

	r.Reset()
	assert.NotEqual(t, id, r.ID())
	assert.Greater(t, r.Epoch(), epoch)
}

func TestFinishProcessing_StaleEpochIgnored(t *testing.T) {
	r := New(5, true)
	answerAll(t, r)
	r.SetContact(completeContact())
	require.True(t, r.SubmitContact())
	stale := r.Epoch()

	r.Reset()
	answerAll(t, r)
	r.SetContact(completeContact())
	require.True(t, r.SubmitContact())

	assert.False(t, r.FinishProcessing(stale))
	assert.Equal(t, StageProcessing, r.Stage())
	assert.True(t, r.FinishProcessing(r.Epoch()))
}

func TestClaim_ResetAllowsNewRun(t *testing.T) {
	r := New(5, false)
	answerAll(t, r)
	r.SetContact(completeContact())
	require.True(t, r.SubmitContact())

	_, ok := r.Claim(r.ID())
	require.True(t, ok)
	assert.True(t, r.Submitted())

	r.Reset()
	assert.False(t, r.Submitted())

	answerAll(t, r)
	r.SetContact(completeContact())
	require.True(t, r.SubmitContact())
	_, ok = r.Claim(r.ID())
	assert.True(t, ok)
}

func TestClaim_Concurrent(t *testing.T) {
	r := New(5, false)
	answerAll(t, r)
	r.SetContact(completeContact())
	require.True(t, r.SubmitContact())
	id := r.ID()

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := r.Claim(id); ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "question", StageQuestion.String())
	assert.Equal(t, "result", StageResult.String())
	assert.Equal(t, "Stage(9)", Stage(9).String())
}

func TestClaim_OnlyFinishedCurrentRun(t *testing.T) {
	r := New(5, false)
	id := r.ID()

	_, ok := r.Claim(id)
	assert.False(t, ok, "claim before the result stage")

	answerAll(t, r)
	r.SetContact(completeContact())
	require.True(t, r.SubmitContact())

	snap, ok := r.Claim(id)
	require.True(t, ok)
	assert.Equal(t, id, snap.ID)
	assert.Equal(t, r.Answers(), snap.Answers)
	assert.Equal(t, completeContact(), snap.Contact)
	assert.True(t, r.Submitted())

	_, ok = r.Claim(id)
	assert.False(t, ok, "second claim")
}

func TestClaim_StaleRunID(t *testing.T) {
	r := New(5, false)
	stale := r.ID()
	r.Reset()

	answerAll(t, r)
	r.SetContact(completeContact())
	require.True(t, r.SubmitContact())

	_, ok := r.Claim(stale)
	assert.False(t, ok)
	assert.False(t, r.Submitted(), "a stale claim must not consume the new run's submission")
}

func TestRunState_ConcurrentReadsDuringReset(t *testing.T) {
	r := New(5, false)
	answerAll(t, r)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			_ = r.Answers()
			_ = r.Contact()
			_, _ = r.Claim(r.ID())
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			r.Reset()
		}
	}()
	wg.Wait()

	assert.Equal(t, StageQuestion, r.Stage())
}
