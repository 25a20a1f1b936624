package daemon

import (
	"context"
	"os"

	"go.trai.ch/rpmd/internal/core/domain"
	"go.trai.ch/rpmd/internal/engine/session"
	"go.trai.ch/rpmd/internal/engine/transaction"
	"go.trai.ch/zerr"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type sessionManagerService struct{ *Server }

func (s *sessionManagerService) OpenSession(ctx context.Context, in *structpb.Struct) (*wrapperspb.StringValue, error) {
	path, err := s.manager.Open(ctx, ownerFromContext(ctx), in.AsMap())
	if err != nil {
		return nil, err
	}
	return wrapperspb.String(path), nil
}

func (s *sessionManagerService) CloseSession(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	return wrapperspb.Bool(s.manager.Close(ctx, ownerFromContext(ctx), in.GetValue())), nil
}

type repoConfService struct{ *Server }

func (s *repoConfService) List(ctx context.Context, in *structpb.Struct) (*structpb.ListValue, error) {
	sess, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	ids, err := stringsField(in, fieldIDs)
	if err != nil {
		return nil, err
	}
	confs, err := sess.ListRepoConf(ctx, ids)
	if err != nil {
		return nil, err
	}
	return stringMapList(confs)
}

func (s *repoConfService) Get(ctx context.Context, in *wrapperspb.StringValue) (*structpb.Struct, error) {
	sess, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	conf, err := sess.GetRepoConf(ctx, in.GetValue())
	if err != nil {
		return nil, err
	}
	return structpb.NewStruct(stringMap(conf))
}

func (s *repoConfService) Enable(ctx context.Context, in *structpb.ListValue) (*structpb.ListValue, error) {
	return s.toggle(ctx, in, (*session.Session).EnableRepos)
}

func (s *repoConfService) Disable(ctx context.Context, in *structpb.ListValue) (*structpb.ListValue, error) {
	return s.toggle(ctx, in, (*session.Session).DisableRepos)
}

func (s *repoConfService) toggle(
	ctx context.Context,
	in *structpb.ListValue,
	op func(*session.Session, context.Context, []string) ([]string, error),
) (*structpb.ListValue, error) {
	sess, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	ids, err := stringsValue(in, fieldIDs)
	if err != nil {
		return nil, err
	}
	changed, err := op(sess, ctx, ids)
	if err != nil {
		return nil, err
	}
	return stringList(changed), nil
}

type repoService struct{ *Server }

func (s *repoService) List(ctx context.Context, in *structpb.Struct) (*structpb.ListValue, error) {
	sess, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	attrs, err := stringsField(in, fieldRepoAttrs)
	if err != nil {
		return nil, err
	}
	patterns, err := stringsField(in, fieldPatterns)
	if err != nil {
		return nil, err
	}
	repos, err := sess.ListRepos(ctx, attrs, patterns)
	if err != nil {
		return nil, err
	}
	return mapList(repos)
}

type rpmService struct{ *Server }

func (s *rpmService) List(ctx context.Context, in *structpb.Struct) (*structpb.ListValue, error) {
	sess, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	opts, err := packageListOptions(in)
	if err != nil {
		return nil, err
	}
	pkgs, err := sess.ListPackages(ctx, opts)
	if err != nil {
		return nil, err
	}
	return mapList(pkgs)
}

func (s *rpmService) Install(ctx context.Context, in *structpb.Struct) (*emptypb.Empty, error) {
	return s.addJobs(ctx, domain.GoalInstall, in)
}

func (s *rpmService) Remove(ctx context.Context, in *structpb.Struct) (*emptypb.Empty, error) {
	return s.addJobs(ctx, domain.GoalRemove, in)
}

func (s *rpmService) Reinstall(ctx context.Context, in *structpb.Struct) (*emptypb.Empty, error) {
	return s.addJobs(ctx, domain.GoalReinstall, in)
}

func (s *rpmService) Upgrade(ctx context.Context, in *structpb.Struct) (*emptypb.Empty, error) {
	return s.addJobs(ctx, domain.GoalUpgrade, in)
}

func (s *rpmService) Downgrade(ctx context.Context, in *structpb.Struct) (*emptypb.Empty, error) {
	return s.addJobs(ctx, domain.GoalDowngrade, in)
}

func (s *rpmService) addJobs(ctx context.Context, action domain.GoalAction, in *structpb.Struct) (*emptypb.Empty, error) {
	sess, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	specs, err := stringsField(in, fieldSpecs)
	if err != nil {
		return nil, err
	}
	settings, err := jobSettings(in)
	if err != nil {
		return nil, err
	}
	if err := sess.AddJobs(ctx, action, specs, settings); err != nil {
		return nil, err
	}
	return &emptypb.Empty{}, nil
}

type goalService struct{ *Server }

func (s *goalService) Resolve(ctx context.Context, _ *structpb.Struct) (*structpb.ListValue, error) {
	sess, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	plan, err := sess.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	values := make([]*structpb.Value, 0, plan.Len())
	for _, item := range plan.All() {
		entry, err := structpb.NewList([]any{int64(item.Action), session.PlanPackageMap(item.Package)})
		if err != nil {
			return nil, zerr.Wrap(err, "cannot encode plan")
		}
		values = append(values, structpb.NewListValue(entry))
	}
	return &structpb.ListValue{Values: values}, nil
}

func (s *goalService) DoTransaction(ctx context.Context, in *structpb.Struct) (*structpb.ListValue, error) {
	sess, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	var opts transaction.Options
	if opts.Test, err = boolField(in, fieldTest); err != nil {
		return nil, err
	}
	if opts.ContinueOnError, err = boolField(in, fieldContinueOnError); err != nil {
		return nil, err
	}
	result, err := sess.DoTransaction(ctx, opts)
	if err != nil {
		return nil, err
	}
	entries := make([]map[string]any, len(result.Entries))
	for i, e := range result.Entries {
		entry := map[string]any{
			fieldIndex:   int64(e.Index),
			fieldAction:  int64(e.Item.Action),
			fieldOutcome: e.Outcome.String(),
			fieldPackage: session.PlanPackageMap(e.Item.Package),
		}
		if e.Err != nil {
			entry[fieldError] = e.Err.Error()
		}
		entries[i] = entry
	}
	return mapList(entries)
}

type baseService struct{ *Server }

func (s *baseService) ReadAllRepos(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.BoolValue, error) {
	sess, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	ok, err := sess.ReadAllRepos(ctx)
	if err != nil {
		return nil, err
	}
	return wrapperspb.Bool(ok), nil
}

type daemonService struct{ *Server }

func (s *daemonService) Ping(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"idle_remaining_seconds": s.lifecycle.IdleRemaining().Seconds(),
	})
}

func (s *daemonService) Status(_ context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"running":                true,
		"pid":                    int64(os.Getpid()),
		"uptime_seconds":         s.lifecycle.Uptime().Seconds(),
		"last_activity_unix":     s.lifecycle.LastActivity().Unix(),
		"idle_remaining_seconds": s.lifecycle.IdleRemaining().Seconds(),
		"sessions":               int64(s.manager.Len()),
	})
}

func (s *daemonService) Shutdown(_ context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	s.lifecycle.Shutdown()
	return &emptypb.Empty{}, nil
}
