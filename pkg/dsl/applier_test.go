package dsl

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm/sqlcriteria/pkg/criteria"
)

func where(c string) Applier {
	return func(b *Builder) error { return b.Where(pred(c)) }
}

func and(c string) Applier {
	return func(b *Builder) error { return b.And(pred(c)) }
}

func or(c string) Applier {
	return func(b *Builder) error { return b.Or(pred(c)) }
}

func TestApplier_AndThenSequences(t *testing.T) {
	var calls []string
	record := func(name string) Applier {
		return func(*Builder) error {
			calls = append(calls, name)
			return nil
		}
	}

	m := &recordingModel{}
	require.NoError(t, NewBuilder(m).ApplyWhere(record("a").AndThen(record("b")).AndThen(record("c"))))
	assert.Equal(t, []string{"a", "b", "c"}, calls)
}

func TestApplier_EquivalentToSequentialCalls(t *testing.T) {
	composed := &recordingModel{}
	require.NoError(t, NewBuilder(composed).ApplyWhere(where("c1").AndThen(and("c2"))))

	manual := &recordingModel{}
	mb := NewBuilder(manual)
	require.NoError(t, where("c1")(mb))
	require.NoError(t, and("c2")(mb))

	assert.Equal(t, manual.where, composed.where)
}

func TestApplier_Associative(t *testing.T) {
	a, b, c := where("c1"), and("c2"), or("c3")

	left := &recordingModel{}
	require.NoError(t, NewBuilder(left).ApplyWhere(a.AndThen(b).AndThen(c)))

	right := &recordingModel{}
	require.NoError(t, NewBuilder(right).ApplyWhere(a.AndThen(b.AndThen(c))))

	assert.Equal(t, left.where, right.where)
	assert.Equal(t, left.sets, right.sets)
}

func TestApplier_Reusable(t *testing.T) {
	shared := where("active").AndThen(or("admin"))

	m1 := &recordingModel{}
	m2 := &recordingModel{}
	require.NoError(t, NewBuilder(m1).ApplyWhere(shared))
	require.NoError(t, NewBuilder(m2).ApplyWhere(shared))

	assert.Equal(t, m1.where, m2.where)
	assert.NotSame(t, m1.where, m2.where)
	assert.Len(t, m1.where.Groups, 1)
}

func TestApplier_FailFast(t *testing.T) {
	ran := false
	second := Applier(func(*Builder) error {
		ran = true
		return nil
	})

	m := &recordingModel{}
	err := NewBuilder(m).ApplyWhere(and("c2").AndThen(second))
	require.Error(t, err)
	assert.True(t, IsComposedApplierErr(err))
	assert.True(t, criteria.IsNoWhereErr(err))
	assert.False(t, ran, "second applier must not run after a fault")

	_, ok := m.WhereFragment()
	assert.False(t, ok)
}

func TestApplier_FaultInSecondStops(t *testing.T) {
	boom := errors.New("boom")
	ranThird := false

	m := &recordingModel{}
	err := NewBuilder(m).ApplyWhere(Chain(
		where("c1"),
		func(*Builder) error { return boom },
		func(*Builder) error { ranThird = true; return nil },
	))
	require.ErrorIs(t, err, boom)
	assert.True(t, IsComposedApplierErr(err))
	assert.False(t, ranThird)

	frag, ok := m.WhereFragment()
	require.True(t, ok, "effects of the first applier stay applied")
	assert.Equal(t, pred("c1"), frag.Initial)
}

func TestChain(t *testing.T) {
	m := &recordingModel{}
	require.NoError(t, NewBuilder(m).ApplyWhere(Chain(where("c1"), nil, and("c2"), or("c3"))))
	require.Len(t, m.where.Groups, 2)
	assert.Equal(t, criteria.Or, m.where.Groups[1].Connector)

	empty := &recordingModel{}
	require.NoError(t, NewBuilder(empty).ApplyWhere(Chain()))
	assert.Nil(t, empty.where)
}

func TestApplyWhere_Nil(t *testing.T) {
	m := &recordingModel{}
	assert.NoError(t, NewBuilder(m).ApplyWhere(nil))
	assert.Zero(t, m.sets)
}

func TestApplier_OnJoiningBuilder(t *testing.T) {
	m := &recordingModel{}
	b := NewJoiningBuilder(m)
	require.NoError(t, b.ApplyWhere(where("c1").AndThen(and("c2"))))
	require.NoError(t, b.Join(table("t"), pred("on")))

	frag, _ := m.WhereFragment()
	assert.Len(t, frag.Groups, 1)
	assert.Len(t, m.joins, 1)
}
