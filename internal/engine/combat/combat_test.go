package combat_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-dungeon/internal/engine/combat"
	"github.com/KirkDiggler/rpg-dungeon/internal/entities"
	"github.com/KirkDiggler/rpg-dungeon/internal/entities/catalog"
	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/random"
)

// fixedActor spends the same time every turn and counts its turns
type fixedActor struct {
	speed float64
	turns int
	act   func(fight *entities.Fight)
}

func (a *fixedActor) Act(_ context.Context, fight *entities.Fight) (float64, error) {
	a.turns++
	if a.act != nil {
		a.act(fight)
	}
	return a.speed, nil
}

type DamageTestSuite struct {
	suite.Suite
}

func TestDamageSuite(t *testing.T) {
	suite.Run(t, new(DamageTestSuite))
}

func (s *DamageTestSuite) TestCalculateAttack() {
	noDodge := random.NewScripted(.99)

	s.Run("no defense keeps the attack", func() {
		s.Equal(10, combat.CalculateAttack(noDodge, 10, 0, false))
	})

	s.Run("defense is a percentage reduction", func() {
		s.Equal(5, combat.CalculateAttack(noDodge, 10, 50, false))
	})

	s.Run("critical doubles exactly", func() {
		for attack := 4; attack < 60; attack++ {
			normal := combat.CalculateAttack(noDodge, attack, 20, false)
			s.Equal(normal*2, combat.CalculateAttack(noDodge, attack, 20, true), "attack %d", attack)
		}
		// weak hits share the dodge roll with their critical
		for _, draw := range []float64{.1, .49, .5, .9} {
			for attack := 0; attack <= 8; attack++ {
				normal := combat.CalculateAttack(random.NewScripted(draw), attack, 50, false)
				crit := combat.CalculateAttack(random.NewScripted(draw), attack, 50, true)
				s.Equal(normal*2, crit, "attack %d draw %v", attack, draw)
			}
		}
		s.Equal(0, combat.CalculateAttack(random.NewScripted(.1), 4, 50, true), "a dodged critical stays dodged")
	})

	s.Run("monotone in defense", func() {
		for attack := 0; attack < 40; attack += 3 {
			last := combat.CalculateAttack(noDodge, attack, 0, false)
			for defense := 1; defense <= 120; defense++ {
				got := combat.CalculateAttack(noDodge, attack, defense, false)
				s.LessOrEqual(got, last, "attack %d defense %d", attack, defense)
				last = got
			}
		}
	})

	s.Run("never negative", func() {
		s.Equal(0, combat.CalculateAttack(noDodge, -7, 0, false))
		s.Equal(0, combat.CalculateAttack(noDodge, 30, 500, true))
	})

	s.Run("weak hits can be dodged", func() {
		s.Equal(0, combat.CalculateAttack(random.NewScripted(.4), 3, 50, false))
		s.Equal(2, combat.CalculateAttack(random.NewScripted(.6), 3, 50, false))
	})

	s.Run("strong hits are never dodged", func() {
		s.Equal(5, combat.CalculateAttack(random.NewScripted(0), 10, 50, false))
	})
}

func (s *DamageTestSuite) TestHitDrawOrder() {
	// crit, attack roll, defense roll, dodge
	rng := random.NewScripted(.05, .99, 0, .99)
	strike := combat.Hit(rng, catalog.Range{Min: 5, Max: 10}, catalog.Range{Min: 0, Max: 4}, 0)

	s.True(strike.Critical)
	s.Equal(20, strike.Damage)
	s.False(strike.Dodged())
	s.Equal(3, rng.Drawn())
}

func (s *DamageTestSuite) TestGuardRaisesDefense() {
	rng := random.NewScripted(.5)
	strike := combat.Hit(rng, catalog.Range{Min: 10, Max: 10}, catalog.Range{}, entities.MaxGuard)

	s.False(strike.Critical)
	s.Equal(9, strike.Damage)
}

func (s *DamageTestSuite) TestPlayerAttackRangeOffsetByLevel() {
	player := entities.NewPlayer("p1")
	player.Weapon = catalog.Weapon("SWORD", 0)
	base := player.Weapon.AttackRange()

	player.XP = entities.XPForLevel(15)
	s.Equal(base.Offset(2), combat.PlayerAttackRange(player))

	player.XP = entities.XPForLevel(4)
	s.Equal(base, combat.PlayerAttackRange(player))
}

func (s *DamageTestSuite) TestPlayerAttack() {
	player := entities.NewPlayer("p1")
	player.Weapon = catalog.Weapon("DAGGER", 0)
	rat, ok := catalog.EnemyByKey("RAT")
	s.Require().True(ok)
	fight := entities.NewFight(rat)

	// no crit, top attack roll, bottom defense roll, no dodge
	speed := combat.PlayerAttack(random.NewScripted(.5, .99, 0, .99), player, fight)

	s.Equal(.5, speed)
	top := player.Weapon.AttackRange().Max
	s.Equal(rat.MaxHP-top, fight.Enemy.HP)
	last := fight.Feed.Last(1)
	s.Require().Len(last, 1)
	s.Equal(entities.SidePlayer, last[0].Actor)
	s.Equal(entities.FeedAttack, last[0].Action)
	s.Equal(top, last[0].Amount)
}

func TestGooPumps(t *testing.T) {
	goo, ok := catalog.BossByKey(catalog.BossGoo)
	require.True(t, ok)

	setup := func() (*entities.Player, *entities.Fight) {
		player := entities.NewPlayer("p1")
		player.XP = entities.XPForLevel(5)
		player.Descend()
		fight := entities.NewFight(goo)
		player.Dungeon.Fight = fight
		return player, fight
	}

	t.Run("charges on the fourth turn", func(t *testing.T) {
		player, fight := setup()
		actor := combat.NewEnemyActor(random.NewScripted(.5), player)

		for i := 1; i < combat.PumpTurns; i++ {
			speed, err := actor.Act(context.Background(), fight)
			require.NoError(t, err)
			assert.Equal(t, goo.Speed, speed)
			assert.Equal(t, i, fight.Enemy.Pump)
		}

		hp := player.Dungeon.HP
		speed, err := actor.Act(context.Background(), fight)
		require.NoError(t, err)
		assert.Equal(t, combat.PumpSpeed, speed)
		assert.Equal(t, hp, player.Dungeon.HP)
		assert.Equal(t, entities.FeedPump, fight.Feed.Last(1)[0].Action)
	})

	t.Run("charged blow hits hard", func(t *testing.T) {
		player, fight := setup()
		fight.Enemy.Pump = combat.PumpTurns + 1
		// no crit, lowest attack roll
		actor := combat.NewEnemyActor(random.NewScripted(.5, 0), player)

		_, err := actor.Act(context.Background(), fight)
		require.NoError(t, err)
		assert.Equal(t, 0, fight.Enemy.Pump)
		assert.Equal(t, player.MaxHP()-45, player.Dungeon.HP)
	})

	t.Run("guard blocks the charged blow", func(t *testing.T) {
		player, fight := setup()
		fight.Enemy.Pump = combat.PumpTurns + 1
		fight.Guard = combat.PumpBlockGuard
		actor := combat.NewEnemyActor(random.NewScripted(.5), player)

		_, err := actor.Act(context.Background(), fight)
		require.NoError(t, err)
		assert.Equal(t, 0, fight.Enemy.Pump)
		assert.Equal(t, player.MaxHP(), player.Dungeon.HP)
	})
}

type SchedulerTestSuite struct {
	suite.Suite
	rat catalog.EnemyInfo
}

func TestSchedulerSuite(t *testing.T) {
	suite.Run(t, new(SchedulerTestSuite))
}

func (s *SchedulerTestSuite) SetupTest() {
	rat, ok := catalog.EnemyByKey("RAT")
	s.Require().True(ok)
	s.rat = rat
}

func (s *SchedulerTestSuite) newScheduler(rng random.Source, checkpoint combat.Checkpoint) *combat.Scheduler {
	scheduler, err := combat.NewScheduler(&combat.SchedulerConfig{Random: rng, Checkpoint: checkpoint})
	s.Require().NoError(err)
	return scheduler
}

func (s *SchedulerTestSuite) TestNewSchedulerRequiresRandom() {
	_, err := combat.NewScheduler(&combat.SchedulerConfig{})
	s.Error(err)

	_, err = combat.NewScheduler(nil)
	s.Error(err)
}

func (s *SchedulerTestSuite) TestSurrenderEndsWithinOneStep() {
	fight := entities.NewFight(s.rat)
	dungeon := &entities.Dungeon{HP: 40}
	player := &fixedActor{speed: combat.SurrenderSpeed}
	enemy := &fixedActor{speed: 1}

	// player moves first
	outcome, err := s.newScheduler(random.NewScripted(.9), nil).Resolve(context.Background(), &combat.ResolveInput{
		Fight: fight, Dungeon: dungeon, Player: player, Enemy: enemy,
	})

	s.Require().NoError(err)
	s.Equal(combat.OutcomeSurrender, outcome)
	s.Equal(1, player.turns)
	s.Equal(0, enemy.turns)
	s.Equal(40, dungeon.HP)
}

func (s *SchedulerTestSuite) TestEnemyMayStrikeFirst() {
	fight := entities.NewFight(s.rat)
	dungeon := &entities.Dungeon{HP: 1}
	player := &fixedActor{speed: 1}
	enemy := &fixedActor{speed: 1, act: func(*entities.Fight) { dungeon.HP = 0 }}

	outcome, err := s.newScheduler(random.NewScripted(.1), nil).Resolve(context.Background(), &combat.ResolveInput{
		Fight: fight, Dungeon: dungeon, Player: player, Enemy: enemy,
	})

	s.Require().NoError(err)
	s.Equal(combat.OutcomeDefeat, outcome)
	s.Equal(0, player.turns)
	s.Equal(1, enemy.turns)
}

func (s *SchedulerTestSuite) TestBossNeverStrikesFirst() {
	goo, _ := catalog.BossByKey(catalog.BossGoo)
	fight := entities.NewFight(goo)
	dungeon := &entities.Dungeon{HP: 40}
	player := &fixedActor{speed: 1, act: func(f *entities.Fight) { f.Enemy.HP = 0 }}
	enemy := &fixedActor{speed: 1}
	rng := random.NewScripted(.1)

	outcome, err := s.newScheduler(rng, nil).Resolve(context.Background(), &combat.ResolveInput{
		Fight: fight, Dungeon: dungeon, Player: player, Enemy: enemy,
	})

	s.Require().NoError(err)
	s.Equal(combat.OutcomeVictory, outcome)
	s.Equal(0, enemy.turns)
	s.Equal(0, rng.Drawn())
}

func (s *SchedulerTestSuite) TestResumedFightKeepsItsState() {
	fight := entities.NewFight(s.rat)
	fight.Started = true
	fight.Next = entities.SideEnemy
	fight.EnemyTime = 1
	dungeon := &entities.Dungeon{HP: 1}
	player := &fixedActor{speed: 1}
	enemy := &fixedActor{speed: 1, act: func(*entities.Fight) { dungeon.HP = 0 }}
	rng := random.NewScripted(.9)

	outcome, err := s.newScheduler(rng, nil).Resolve(context.Background(), &combat.ResolveInput{
		Fight: fight, Dungeon: dungeon, Player: player, Enemy: enemy,
	})

	s.Require().NoError(err)
	s.Equal(combat.OutcomeDefeat, outcome)
	s.Equal(0, player.turns)
	s.Equal(0, rng.Drawn())
}

func (s *SchedulerTestSuite) TestCheckpointBeforeEveryTurn() {
	fight := entities.NewFight(s.rat)
	dungeon := &entities.Dungeon{HP: 40}
	hits := 0
	player := &fixedActor{speed: 1, act: func(f *entities.Fight) {
		hits++
		if hits == 3 {
			f.Enemy.HP = 0
		}
	}}
	enemy := &fixedActor{speed: 1}
	checkpoints := 0

	outcome, err := s.newScheduler(random.NewScripted(.9), func(context.Context, *entities.Fight) error {
		checkpoints++
		return nil
	}).Resolve(context.Background(), &combat.ResolveInput{
		Fight: fight, Dungeon: dungeon, Player: player, Enemy: enemy,
	})

	s.Require().NoError(err)
	s.Equal(combat.OutcomeVictory, outcome)
	s.Equal(player.turns+enemy.turns, checkpoints)
}

func (s *SchedulerTestSuite) TestActorErrorStopsTheFight() {
	suspended := stderrors.New("suspended")
	fight := entities.NewFight(s.rat)
	dungeon := &entities.Dungeon{HP: 40}

	_, err := s.newScheduler(random.NewScripted(.9), nil).Resolve(context.Background(), &combat.ResolveInput{
		Fight:   fight,
		Dungeon: dungeon,
		Player:  combatActorFunc(func() (float64, error) { return 0, suspended }),
		Enemy:   &fixedActor{speed: 1},
	})

	s.ErrorIs(err, suspended)
}

func (s *SchedulerTestSuite) TestCancelledContext() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.newScheduler(random.NewScripted(.9), nil).Resolve(ctx, &combat.ResolveInput{
		Fight:   entities.NewFight(s.rat),
		Dungeon: &entities.Dungeon{HP: 40},
		Player:  &fixedActor{speed: 1},
		Enemy:   &fixedActor{speed: 1},
	})

	s.ErrorIs(err, context.Canceled)
}

func (s *SchedulerTestSuite) TestRealFightTerminates() {
	rng := random.NewSeeded(42)
	for i := 0; i < 50; i++ {
		player := entities.NewPlayer("p1")
		player.Descend()
		fight := entities.NewFight(s.rat)
		player.Dungeon.Fight = fight

		attacker := combatActorFunc(func() (float64, error) {
			return combat.PlayerAttack(rng, player, fight), nil
		})
		outcome, err := s.newScheduler(rng, nil).Resolve(context.Background(), &combat.ResolveInput{
			Fight:   fight,
			Dungeon: player.Dungeon,
			Player:  attacker,
			Enemy:   combat.NewEnemyActor(rng, player),
		})

		s.Require().NoError(err)
		s.Contains([]combat.Outcome{combat.OutcomeVictory, combat.OutcomeDefeat}, outcome)
	}
}

func TestAdvanceTurnRatio(t *testing.T) {
	cases := []struct {
		name        string
		playerSpeed float64
		enemySpeed  float64
	}{
		{"equal", 1, 1},
		{"fast player", .5, 1},
		{"slow player", 2, 1},
		{"slow enemy", 1, 3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fight := entities.NewFight(catalog.EnemyInfo{Key: "DUMMY"})
			fight.PlayerTime = 1
			turns := map[entities.Side]int{}

			for i := 0; i < 6000; i++ {
				side := fight.Next
				speed := tc.playerSpeed
				if side == entities.SideEnemy {
					speed = tc.enemySpeed
				}
				turns[side]++
				step, _ := combat.Advance(fight, side, speed, 100)
				require.NotEqual(t, combat.StepEnd, step)
			}

			ratio := float64(turns[entities.SidePlayer]) / float64(turns[entities.SideEnemy])
			assert.InDelta(t, tc.enemySpeed/tc.playerSpeed, ratio, .05)
		})
	}
}

func TestAdvance(t *testing.T) {
	t.Run("killing blow ends the fight", func(t *testing.T) {
		fight := entities.NewFight(catalog.EnemyInfo{Key: "DUMMY"})
		step, outcome := combat.Advance(fight, entities.SidePlayer, 1, 0)
		assert.Equal(t, combat.StepEnd, step)
		assert.Equal(t, combat.OutcomeVictory, outcome)

		step, outcome = combat.Advance(fight, entities.SideEnemy, 1, 0)
		assert.Equal(t, combat.StepEnd, step)
		assert.Equal(t, combat.OutcomeDefeat, outcome)
	})

	t.Run("leftover time keeps the turn", func(t *testing.T) {
		fight := entities.NewFight(catalog.EnemyInfo{Key: "DUMMY"})
		fight.PlayerTime = 1
		step, _ := combat.Advance(fight, entities.SidePlayer, .5, 10)
		assert.Equal(t, combat.StepContinue, step)
		assert.Equal(t, .5, fight.PlayerTime)
		assert.Equal(t, entities.SidePlayer, fight.Next)
	})

	t.Run("spent time passes the turn", func(t *testing.T) {
		fight := entities.NewFight(catalog.EnemyInfo{Key: "DUMMY"})
		fight.PlayerTime = 1
		step, _ := combat.Advance(fight, entities.SidePlayer, 2, 10)
		assert.Equal(t, combat.StepPass, step)
		assert.Equal(t, -1.0, fight.PlayerTime)
		assert.Equal(t, 1.0, fight.EnemyTime)
		assert.Equal(t, entities.SideEnemy, fight.Next)
	})
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "victory", combat.OutcomeVictory.String())
	assert.Equal(t, "defeat", combat.OutcomeDefeat.String())
	assert.Equal(t, "surrender", combat.OutcomeSurrender.String())
	assert.Equal(t, "unknown", combat.Outcome(99).String())
}

type combatActorFunc func() (float64, error)

func (f combatActorFunc) Act(context.Context, *entities.Fight) (float64, error) {
	return f()
}
