package validate_test

import (
	"testing"

	"github.com/ardanlabs/minesim/business/sys/validate"
	"github.com/ardanlabs/minesim/foundation/blockchain/genesis"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestCheckScenario(t *testing.T) {
	t.Log("Given the need to validate scenarios received from users.")
	{
		t.Logf("\tTest 0:\tWhen checking the reference scenario.")
		{
			if err := validate.Check(genesis.Default()); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould pass validation: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould pass validation.", success)
		}

		t.Logf("\tTest 1:\tWhen fields are out of range.")
		{
			g := genesis.Default()
			g.Ticks = 0
			g.BlacklistChance = 2
			g.Miners[0].Name = ""

			err := validate.Check(g)
			if !validate.IsFieldErrors(err) {
				t.Fatalf("\t%s\tTest 1:\tShould return field errors, got %v.", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould return field errors.", success)

			fields := validate.GetFieldErrors(err).Fields()
			for _, name := range []string{"ticks", "blacklist_chance", "name"} {
				if _, exists := fields[name]; !exists {
					t.Fatalf("\t%s\tTest 1:\tShould report the %q field: %v", failed, name, fields)
				}
			}
			t.Logf("\t%s\tTest 1:\tShould report every field by its JSON name.", success)
		}
	}
}
