// Package lua runs user-supplied navigation strategies written in Lua.
//
// A strategy script replaces the compute step of a registered action and,
// optionally, its apply step:
//
//	-- compute returns the raw magnitude, or nil when idle.
//	function compute(ctx)
//	  if ctx.keys.y == 0 then return nil end
//	  return 0, 0, ctx.keys.y
//	end
//
//	-- apply pushes a computed magnitude into the view.
//	function apply(ctx, x, y, z)
//	  view.set_roll(view.roll() + change(z))
//	end
//
// When apply is absent the action's previous strategy applies the
// magnitude. compute runs in query mode too, so the view table refuses
// mutation there.
//
// Scripts execute in a sandbox: only the base, table, string and math
// libraries are opened, dofile, loadfile, load and loadstring are removed,
// and every call is bounded by an instruction budget and a deadline.
package lua
