package mcpserver

// StreakRules explains how check-ins, streaks and notifications behave, for
// LLM clients that act on the user's habits.
const StreakRules = `# LifeFlow Streak Rules

## Check-ins

- A check-in records that a habit was done on one **local calendar day**.
- The day is computed from the client's timezone offset in minutes
  **west** of UTC (for UTC+8 pass ` + "`-480`" + `). Valid offsets run from
  ` + "`-840`" + ` to ` + "`720`" + `; anything else is rejected.
- Checking in twice on the same day is a no-op; the habit is returned unchanged.

## Streaks

| Last check-in      | New current streak |
|--------------------|--------------------|
| never              | 1                  |
| today              | unchanged          |
| yesterday          | current + 1        |
| two or more days   | 1                  |

` + "`longest_streak`" + ` never decreases and is always at least ` + "`current_streak`" + `.

## Notifications

"Today" below is the local day for the ` + "`timezone_offset`" + ` passed to the
generator tools (the host's day for scheduled runs).

- **habit_reminder**: active habits without a running streak that are not
  checked in today. At most one per habit per UTC day.
- **at-risk** (habit_reminder with ` + "`at_risk: true`" + `): habits with a running streak
  not yet checked in today. At most one per habit per UTC day.
- **achievement**: streak milestones 7, 14, 30, 60 and 100, each awarded once
  per habit.
- **daily_complete**: every active habit checked in today; once per UTC day.
`
